package app

import (
	"context"
	"errors"
	"time"

	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
)

// systemActor reads orders on behalf of the payment flow.
var systemActor = model.Actor{Role: model.UserRoleAdmin}

// paymentOrderAdapter adapts the order domain to outbound.PaymentOrderPort.
// It lives in the app package so payment and order never import each other.
type paymentOrderAdapter struct {
	orders order.OrderDomain
}

var _ outbound.PaymentOrderPort = (*paymentOrderAdapter)(nil)

func newPaymentOrderAdapter(orders order.OrderDomain) *paymentOrderAdapter {
	return &paymentOrderAdapter{orders: orders}
}

// GetOrder returns the order, or nil when it does not exist.
func (a *paymentOrderAdapter) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return notFoundAsNil(a.orders.GetOrder(ctx, systemActor, id))
}

// GetOrderByIntentID returns the order holding the intent, or nil.
func (a *paymentOrderAdapter) GetOrderByIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	return notFoundAsNil(a.orders.GetOrderByPaymentIntentID(ctx, intentID))
}

func (a *paymentOrderAdapter) AttachIntent(ctx context.Context, orderID uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error {
	return a.orders.AttachPaymentIntent(ctx, orderID, provider, intentID, replaces)
}

func (a *paymentOrderAdapter) ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error) {
	return a.orders.ListAwaitingPayment(ctx, olderThan, limit)
}

func notFoundAsNil(o *model.Order, err error) (*model.Order, error) {
	if errors.Is(err, order.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}
