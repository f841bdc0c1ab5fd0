package review

import "errors"

// Domain errors.
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNotPurchased    = errors.New("only customers who bought this product can review it")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrForbidden       = errors.New("not allowed to modify this review")
)
