package model

import (
	"time"

	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
)

// Review is a purchaser's rating of a product.
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_user_product;index"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_review_user_product"`
	Author    string    `json:"author" gorm:"not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Review) TableName() string {
	return "reviews"
}

// ReviewFilter represents review query filters.
type ReviewFilter struct {
	ProductID uuid.UUID `form:"-"`
	MinRating int       `form:"min_rating"`
	pagination.Pagination
}

// RatingSummary is the aggregate rating of a product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// CreateReviewRequest represents a new review.
type CreateReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"max=120"`
	Body   string `json:"body" binding:"max=4000"`
}

// UpdateReviewRequest represents a partial review update.
type UpdateReviewRequest struct {
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Title  *string `json:"title,omitempty" binding:"omitempty,max=120"`
	Body   *string `json:"body,omitempty" binding:"omitempty,max=4000"`
}
