package payment

import "errors"

// Domain errors for payments.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderCancelled       = errors.New("order is cancelled")
	ErrOrderAlreadyPaid     = errors.New("order is already paid")
	ErrOrderNotPayable      = errors.New("order does not accept payments")
	ErrIntentMismatch       = errors.New("payment intent does not belong to this order")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrProviderNotAvailable = errors.New("payment provider not available")
	ErrProviderFailure      = errors.New("payment provider request failed")
	ErrInvalidWebhook       = errors.New("invalid webhook payload")
)
