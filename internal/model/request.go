package model

import "strings"

// SortOrder is the direction of a sorted listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortRequest defines sorting parameters.
type SortRequest struct {
	SortBy    string    `json:"sort_by" form:"sort_by"`
	SortOrder SortOrder `json:"sort_order" form:"sort_order"`
}

// DefaultSort applies default sorting values. Unknown orders become desc.
func (s *SortRequest) DefaultSort(defaultField string, defaultOrder SortOrder) {
	s.SortBy = strings.ToLower(strings.TrimSpace(s.SortBy))
	if s.SortBy == "" {
		s.SortBy = defaultField
	}
	switch SortOrder(strings.ToLower(string(s.SortOrder))) {
	case SortAsc:
		s.SortOrder = SortAsc
	case SortDesc:
		s.SortOrder = SortDesc
	default:
		s.SortOrder = defaultOrder
	}
}

// IsAsc returns true if sort order is ascending.
func (s SortRequest) IsAsc() bool {
	return s.SortOrder == SortAsc
}
