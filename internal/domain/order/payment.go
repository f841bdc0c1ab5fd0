package order

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (d *orderDomain) GetOrderByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	order, err := d.orderDB.GetByPaymentIntentID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("get order by intent: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// AttachPaymentIntent binds intentID to the order. The order must still hold
// replaces ("" when it had no intent); otherwise another attempt won the race.
func (d *orderDomain) AttachPaymentIntent(ctx context.Context, id uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error {
	return d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := d.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCancelled || !order.PaymentStatus.AcceptsPayment() {
			return ErrPaymentAlreadyStarted
		}
		var current string
		if order.HasIntent() {
			current = *order.PaymentIntentID
		}
		if current != replaces {
			return ErrPaymentAlreadyStarted
		}
		order.PaymentProvider = string(provider)
		order.PaymentIntentID = &intentID
		order.PaymentStatus = model.OrderPaymentPending
		return d.orderDB.Update(ctx, order)
	})
}

func (d *orderDomain) ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error) {
	return d.orderDB.ListAwaitingPayment(ctx, time.Now().Add(-olderThan), limit)
}

// MarkPaid records a successful payment and starts fulfillment of a pending order.
// Repeated calls are no-ops. A payment that lands on an already cancelled
// order is recorded and the cancellation is re-announced so the money is refunded.
func (d *orderDomain) MarkPaid(ctx context.Context, id uuid.UUID, intentID string, paidAt time.Time) error {
	var (
		order     *model.Order
		from      model.OrderStatus
		changed   bool
		cancelled bool
	)
	err := d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = d.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		if order.PaymentStatus.IsPaid() || order.PaymentStatus == model.OrderPaymentRefunded {
			return nil
		}

		from = order.Status
		order.PaymentStatus = model.OrderPaymentPaid
		order.PaymentDate = &paidAt
		if intentID != "" {
			order.PaymentIntentID = &intentID
		}
		switch order.Status {
		case model.OrderStatusPending:
			order.Status = model.OrderStatusProcessing
		case model.OrderStatusCancelled:
			cancelled = true
		}
		changed = true
		return d.orderDB.Update(ctx, order)
	})
	if err != nil || !changed {
		return err
	}

	d.logger.Info("order paid",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", intentID),
	)
	if cancelled {
		d.logger.Warn("payment arrived for cancelled order", zap.String("order_id", order.ID.String()))
		evt := events.NewOrderCancelledEvent(order.ID, order.UserID, order.PaymentProvider, intentID,
			true, order.TotalAmount, order.CancelReason)
		return d.publisher.Publish(ctx, evt)
	}
	if order.Status != from {
		d.statusChanged(ctx, order, from)
	}
	return nil
}

func (d *orderDomain) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return d.updatePaymentStatus(ctx, id, func(o *model.Order) bool {
		if o.PaymentStatus.IsPaid() || o.PaymentStatus == model.OrderPaymentRefunded {
			return false
		}
		o.PaymentStatus = model.OrderPaymentFailed
		return true
	})
}

func (d *orderDomain) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	return d.updatePaymentStatus(ctx, id, func(o *model.Order) bool {
		if o.PaymentStatus == model.OrderPaymentRefunded {
			return false
		}
		o.PaymentStatus = model.OrderPaymentRefunded
		return true
	})
}

func (d *orderDomain) updatePaymentStatus(ctx context.Context, id uuid.UUID, apply func(*model.Order) bool) error {
	return d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := d.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		if !apply(order) {
			return nil
		}
		return d.orderDB.Update(ctx, order)
	})
}
