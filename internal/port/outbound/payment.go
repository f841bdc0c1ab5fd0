package outbound

import (
	"context"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// PaymentDatabasePort defines payment persistence operations.
// Lookups return (nil, nil) when nothing matches.
type PaymentDatabasePort interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
}

// WebhookEventDatabasePort defines webhook event persistence operations.
type WebhookEventDatabasePort interface {
	// Create stores a webhook event. If one with the same provider and event
	// ID already exists, event is overwritten with the stored record.
	Create(ctx context.Context, event *model.WebhookEvent) error

	// Exists reports whether the event was already processed without error.
	Exists(ctx context.Context, provider, eventID string) (bool, error)

	// MarkProcessed marks a webhook event as processed.
	MarkProcessed(ctx context.Context, id uuid.UUID, processErr error) error
}

// PaymentProviderPort is a payment backend that works with intents.
type PaymentProviderPort interface {
	// Name returns the provider name.
	Name() model.PaymentProvider

	// CreateIntent starts a payment for an order.
	CreateIntent(ctx context.Context, params *model.CreateIntentParams) (*model.ProviderIntent, error)

	// GetIntent fetches the current state of an intent.
	GetIntent(ctx context.Context, intentID string) (*model.ProviderIntent, error)

	// CancelIntent abandons an unpaid intent.
	CancelIntent(ctx context.Context, intentID string) error

	// Refund returns a paid intent's money.
	Refund(ctx context.Context, intentID string, amount int64, reason string) (*model.ProviderRefund, error)

	// ParseWebhook verifies and decodes a webhook delivery.
	ParseWebhook(ctx context.Context, payload []byte, headers map[string]string) (*model.WebhookNotification, error)
}

// PaymentProviderRegistryPort looks providers up by name.
type PaymentProviderRegistryPort interface {
	Get(name model.PaymentProvider) (PaymentProviderPort, error)
}

// PaymentOrderPort gives the payment domain the order operations it needs
// without depending on the order domain. Lookups return (nil, nil) when
// nothing matches.
type PaymentOrderPort interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetOrderByIntentID(ctx context.Context, intentID string) (*model.Order, error)

	// AttachIntent records the provider and intent on the order and marks
	// its payment_status pending. It fails unless the order still holds
	// replaces ("" for none), so two racing attempts cannot both attach.
	AttachIntent(ctx context.Context, orderID uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error

	// ListAwaitingPayment returns unpaid orders whose intent has been open
	// longer than olderThan, including ones whose last attempt was declined.
	ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error)
}
