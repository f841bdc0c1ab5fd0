package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCanceled   PaymentStatus = "canceled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// IsTerminal returns true once the attempt can no longer collect money.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCanceled || s == PaymentStatusRefunded
}

// IsOpen returns true while the attempt can still be paid. A declined card
// attempt stays open because the shopper may retry the same intent.
func (s PaymentStatus) IsOpen() bool {
	return s == PaymentStatusPending || s == PaymentStatusProcessing || s == PaymentStatusFailed
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusProcessing || target == PaymentStatusSucceeded ||
			target == PaymentStatusFailed || target == PaymentStatusCanceled
	case PaymentStatusProcessing:
		return target == PaymentStatusSucceeded || target == PaymentStatusFailed ||
			target == PaymentStatusCanceled
	case PaymentStatusFailed:
		return target == PaymentStatusProcessing || target == PaymentStatusSucceeded ||
			target == PaymentStatusCanceled
	case PaymentStatusSucceeded:
		return target == PaymentStatusRefunded
	default:
		return false
	}
}

// PaymentProvider names a payment backend.
type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderAlipay PaymentProvider = "alipay"
)

// Payment is one payment attempt for an order.
type Payment struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Provider         PaymentProvider `json:"provider" gorm:"not null"`
	ProviderIntentID string          `json:"provider_intent_id" gorm:"uniqueIndex;not null"`
	Amount           int64           `json:"amount" gorm:"not null"`
	Currency         string          `json:"currency" gorm:"not null"`
	Status           PaymentStatus   `json:"status" gorm:"not null;default:pending;index"`
	FailureCode      string          `json:"failure_code,omitempty"`
	FailureMessage   string          `json:"failure_message,omitempty"`
	RefundID         string          `json:"refund_id,omitempty"`
	SucceededAt      *time.Time      `json:"succeeded_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Payment) TableName() string {
	return "payments"
}

// WebhookEvent represents a stored webhook event for idempotency.
type WebhookEvent struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Provider    string     `json:"provider" gorm:"not null;uniqueIndex:idx_webhook_provider_event"`
	EventID     string     `json:"event_id" gorm:"not null;uniqueIndex:idx_webhook_provider_event"`
	EventType   string     `json:"event_type" gorm:"not null"`
	Data        string     `json:"data" gorm:"type:jsonb"`
	Processed   bool       `json:"processed" gorm:"default:false"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName returns the table name for GORM.
func (WebhookEvent) TableName() string {
	return "payment_webhook_events"
}

// IntentStatus is the provider-neutral state of a payment intent.
type IntentStatus string

const (
	IntentRequiresPayment IntentStatus = "requires_payment"
	IntentProcessing      IntentStatus = "processing"
	IntentSucceeded       IntentStatus = "succeeded"
	IntentFailed          IntentStatus = "failed"
	IntentCanceled        IntentStatus = "canceled"
)

// Payable returns true while the provider would still accept money on the
// intent. A declined intent is payable again.
func (s IntentStatus) Payable() bool {
	return s == IntentRequiresPayment || s == IntentFailed
}

// ProviderIntent is a payment intent as reported by a provider.
type ProviderIntent struct {
	ID             string
	ClientSecret   string
	PayURL         string
	Amount         int64
	Currency       string
	Status         IntentStatus
	FailureCode    string
	FailureMessage string
}

// ProviderRefund is a refund as reported by a provider.
type ProviderRefund struct {
	ID     string
	Amount int64
	Status string
}

// WebhookNotification is a verified, provider-neutral webhook payload.
type WebhookNotification struct {
	EventID        string
	EventType      string
	IntentID       string
	Status         IntentStatus
	FailureCode    string
	FailureMessage string
	Raw            string
	// Ack is the body the provider expects back on success, if any.
	Ack string
}

// CreateIntentParams describes the intent the payment domain wants created.
type CreateIntentParams struct {
	OrderID     uuid.UUID
	OrderNumber string
	Amount      int64
	Currency    string
	ReturnURL   string
	Metadata    map[string]string
}

// PaymentIntentResponse is returned by the payment-intent endpoint.
type PaymentIntentResponse struct {
	OrderID         uuid.UUID       `json:"order_id"`
	Provider        PaymentProvider `json:"provider"`
	PaymentIntentID string          `json:"payment_intent_id"`
	ClientSecret    string          `json:"client_secret,omitempty"`
	PayURL          string          `json:"pay_url,omitempty"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
}

// ConfirmPaymentRequest confirms a payment intent for an order.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// AlipayPaymentRequest starts an Alipay page payment.
type AlipayPaymentRequest struct {
	ReturnURL string `json:"return_url" binding:"omitempty,url"`
}
