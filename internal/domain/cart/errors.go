package cart

import "errors"

// Domain errors for the cart.
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrQuantityLimit      = errors.New("quantity exceeds the per-item limit")
	ErrItemNotInCart      = errors.New("product is not in the cart")
	ErrCurrencyMismatch   = errors.New("cart cannot mix currencies")
)
