package order

import "errors"

// Domain errors for orders.
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrProductUnavailable    = errors.New("product is no longer available")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrCurrencyMismatch      = errors.New("cart mixes currencies")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrOrderNotCancellable   = errors.New("order can no longer be cancelled by the customer")
	ErrPaymentAlreadyStarted = errors.New("order already has a payment in progress")
)
