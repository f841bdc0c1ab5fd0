package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type names.
const (
	PaymentSucceededType   = "payment.succeeded"
	PaymentFailedType      = "payment.failed"
	PaymentRefundedType    = "payment.refunded"
	OrderCancelledType     = "order.cancelled"
	OrderStatusChangedType = "order.status_changed"
)

// PaymentSucceededEvent is emitted once a provider reports an intent as paid.
type PaymentSucceededEvent struct {
	BaseEvent
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	IntentID  string    `json:"intent_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Provider  string    `json:"provider"`
	PaidAt    time.Time `json:"paid_at"`
}

// NewPaymentSucceededEvent creates a new PaymentSucceededEvent.
func NewPaymentSucceededEvent(paymentID, orderID, userID uuid.UUID, intentID string, amount int64, currency, provider string, paidAt time.Time) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseEvent: NewBaseEvent(PaymentSucceededType, paymentID, "Payment"),
		PaymentID: paymentID,
		OrderID:   orderID,
		UserID:    userID,
		IntentID:  intentID,
		Amount:    amount,
		Currency:  currency,
		Provider:  provider,
		PaidAt:    paidAt,
	}
}

// PaymentFailedEvent is emitted when a provider reports an intent as failed or canceled.
type PaymentFailedEvent struct {
	BaseEvent
	PaymentID      uuid.UUID `json:"payment_id"`
	OrderID        uuid.UUID `json:"order_id"`
	UserID         uuid.UUID `json:"user_id"`
	IntentID       string    `json:"intent_id"`
	FailureCode    string    `json:"failure_code,omitempty"`
	FailureMessage string    `json:"failure_message,omitempty"`
	Provider       string    `json:"provider"`
}

// NewPaymentFailedEvent creates a new PaymentFailedEvent.
func NewPaymentFailedEvent(paymentID, orderID, userID uuid.UUID, intentID, failureCode, failureMessage, provider string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent:      NewBaseEvent(PaymentFailedType, paymentID, "Payment"),
		PaymentID:      paymentID,
		OrderID:        orderID,
		UserID:         userID,
		IntentID:       intentID,
		FailureCode:    failureCode,
		FailureMessage: failureMessage,
		Provider:       provider,
	}
}

// OrderCancelledEvent is emitted after an order moves to cancelled.
type OrderCancelledEvent struct {
	BaseEvent
	OrderID         uuid.UUID `json:"order_id"`
	UserID          uuid.UUID `json:"user_id"`
	PaymentProvider string    `json:"payment_provider,omitempty"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	WasPaid         bool      `json:"was_paid"`
	Amount          int64     `json:"amount"`
	Reason          string    `json:"reason,omitempty"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent.
func NewOrderCancelledEvent(orderID, userID uuid.UUID, provider, intentID string, wasPaid bool, amount int64, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseEvent:       NewBaseEvent(OrderCancelledType, orderID, "Order"),
		OrderID:         orderID,
		UserID:          userID,
		PaymentProvider: provider,
		PaymentIntentID: intentID,
		WasPaid:         wasPaid,
		Amount:          amount,
		Reason:          reason,
	}
}

// OrderStatusChangedEvent is emitted on every fulfillment status change.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent.
func NewOrderStatusChangedEvent(orderID, userID uuid.UUID, from, to string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent: NewBaseEvent(OrderStatusChangedType, orderID, "Order"),
		OrderID:   orderID,
		UserID:    userID,
		From:      from,
		To:        to,
	}
}

// PaymentRefundedEvent is emitted after a paid intent was refunded.
type PaymentRefundedEvent struct {
	BaseEvent
	PaymentID uuid.UUID `json:"payment_id"`
	OrderID   uuid.UUID `json:"order_id"`
	RefundID  string    `json:"refund_id"`
	Amount    int64     `json:"amount"`
	Provider  string    `json:"provider"`
}

// NewPaymentRefundedEvent creates a new PaymentRefundedEvent.
func NewPaymentRefundedEvent(paymentID, orderID uuid.UUID, refundID string, amount int64, provider string) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseEvent: NewBaseEvent(PaymentRefundedType, paymentID, "Payment"),
		PaymentID: paymentID,
		OrderID:   orderID,
		RefundID:  refundID,
		Amount:    amount,
		Provider:  provider,
	}
}
