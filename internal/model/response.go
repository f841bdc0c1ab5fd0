package model

import "github.com/carzone/server/internal/utils/pagination"

// PaginatedResponse defines paginated response structure.
type PaginatedResponse[T any] struct {
	Data     []T                 `json:"data"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// NewPaginatedResponse creates a new paginated response.
func NewPaginatedResponse[T any](data []T, total int64, p pagination.Pagination) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &PaginatedResponse[T]{
		Data:     data,
		PageInfo: p.Info(total),
	}
}

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}
