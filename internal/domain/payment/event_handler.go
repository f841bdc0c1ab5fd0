package payment

import (
	"context"
	"fmt"

	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"go.uber.org/zap"
)

// EventHandler releases the money side of cancelled orders: open intents
// are cancelled and collected payments are refunded.
type EventHandler struct {
	paymentDB outbound.PaymentDatabasePort
	providers outbound.PaymentProviderRegistryPort
	publisher events.Publisher
	logger    *zap.Logger
}

// NewEventHandler creates a new payment event handler.
func NewEventHandler(
	paymentDB outbound.PaymentDatabasePort,
	providers outbound.PaymentProviderRegistryPort,
	publisher events.Publisher,
	logger *zap.Logger,
) *EventHandler {
	return &EventHandler{
		paymentDB: paymentDB,
		providers: providers,
		publisher: publisher,
		logger:    logger,
	}
}

// Handles returns the list of event types this handler can process.
func (h *EventHandler) Handles() []string {
	return []string{events.OrderCancelledType}
}

// Handle processes the given event.
func (h *EventHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.OrderCancelledEvent)
	if !ok {
		h.logger.Warn("unhandled event type", zap.String("event_type", event.EventType()))
		return nil
	}
	if e.PaymentIntentID == "" {
		return nil
	}

	payment, err := h.paymentDB.FindByIntentID(ctx, e.PaymentIntentID)
	if err != nil {
		return fmt.Errorf("find payment: %w", err)
	}
	if payment == nil {
		return nil
	}

	provider, err := h.providers.Get(payment.Provider)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProviderNotAvailable, payment.Provider)
	}

	switch {
	case payment.Status == model.PaymentStatusSucceeded:
		return h.refund(ctx, provider, payment, e.Reason)
	case payment.Status.IsOpen():
		if err := provider.CancelIntent(ctx, payment.ProviderIntentID); err != nil {
			return fmt.Errorf("%w: cancel intent: %v", ErrProviderFailure, err)
		}
		payment.Status = model.PaymentStatusCanceled
		if err := h.paymentDB.Update(ctx, payment); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		h.logger.Info("payment intent cancelled with order",
			zap.String("order_id", e.OrderID.String()),
			zap.String("intent_id", payment.ProviderIntentID),
		)
	}
	return nil
}

func (h *EventHandler) refund(ctx context.Context, provider outbound.PaymentProviderPort, payment *model.Payment, reason string) error {
	refund, err := provider.Refund(ctx, payment.ProviderIntentID, payment.Amount, reason)
	if err != nil {
		return fmt.Errorf("%w: refund: %v", ErrProviderFailure, err)
	}

	payment.Status = model.PaymentStatusRefunded
	payment.RefundID = refund.ID
	if err := h.paymentDB.Update(ctx, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	h.logger.Info("payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("order_id", payment.OrderID.String()),
		zap.String("refund_id", refund.ID),
		zap.Int64("amount", payment.Amount),
	)
	return h.publisher.Publish(ctx, events.NewPaymentRefundedEvent(
		payment.ID, payment.OrderID, refund.ID, payment.Amount, string(payment.Provider),
	))
}
