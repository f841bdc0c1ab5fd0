package order

import (
	"context"

	"github.com/carzone/server/internal/infra/events"
	"go.uber.org/zap"
)

// EventHandler applies payment outcomes to orders.
type EventHandler struct {
	domain OrderDomain
	logger *zap.Logger
}

// NewEventHandler creates a new order event handler.
func NewEventHandler(domain OrderDomain, logger *zap.Logger) *EventHandler {
	return &EventHandler{domain: domain, logger: logger}
}

// Handles returns the list of event types this handler can process.
func (h *EventHandler) Handles() []string {
	return []string{
		events.PaymentSucceededType,
		events.PaymentFailedType,
		events.PaymentRefundedType,
	}
}

// Handle processes the given event.
func (h *EventHandler) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.PaymentSucceededEvent:
		return h.domain.MarkPaid(ctx, e.OrderID, e.IntentID, e.PaidAt)
	case *events.PaymentFailedEvent:
		return h.domain.MarkPaymentFailed(ctx, e.OrderID)
	case *events.PaymentRefundedEvent:
		return h.domain.MarkRefunded(ctx, e.OrderID)
	default:
		h.logger.Warn("unhandled event type", zap.String("event_type", event.EventType()))
		return nil
	}
}
