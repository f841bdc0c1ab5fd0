package catalog

import "errors"

// Domain errors for the catalog.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryExists     = errors.New("category name or slug already exists")
	ErrCategoryInUse      = errors.New("category still has products")
	ErrInvalidPriceRange  = errors.New("min_price is greater than max_price")
	ErrInvalidRating      = errors.New("min_rating must be between 0 and 5")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrForbidden          = errors.New("not allowed to manage this product")
	ErrStorageUnavailable = errors.New("image storage is not configured")
)
