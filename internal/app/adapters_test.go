package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderDomain struct {
	mock.Mock
}

func (m *MockOrderDomain) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) ListOrders(ctx context.Context, actor model.Actor, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]*model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderDomain) CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) NextActions(ctx context.Context, id uuid.UUID) (*model.OrderActions, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderActions), args.Error(1)
}

func (m *MockOrderDomain) GetOrderByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderDomain) AttachPaymentIntent(ctx context.Context, id uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error {
	return m.Called(ctx, id, provider, intentID, replaces).Error(0)
}

func (m *MockOrderDomain) ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error) {
	args := m.Called(ctx, olderThan, limit)
	return args.Get(0).([]*model.Order), args.Error(1)
}

func (m *MockOrderDomain) MarkPaid(ctx context.Context, id uuid.UUID, intentID string, paidAt time.Time) error {
	return m.Called(ctx, id, intentID, paidAt).Error(0)
}

func (m *MockOrderDomain) MarkPaymentFailed(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderDomain) MarkRefunded(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderDomain) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func TestPaymentOrderAdapter_GetOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("reads any order", func(t *testing.T) {
		orders := new(MockOrderDomain)
		o := &model.Order{ID: uuid.New(), UserID: uuid.New()}
		orders.On("GetOrder", ctx, systemActor, o.ID).Return(o, nil)

		got, err := newPaymentOrderAdapter(orders).GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o, got)
	})

	t.Run("missing order is nil", func(t *testing.T) {
		orders := new(MockOrderDomain)
		id := uuid.New()
		orders.On("GetOrder", ctx, systemActor, id).Return(nil, order.ErrOrderNotFound)

		got, err := newPaymentOrderAdapter(orders).GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		orders := new(MockOrderDomain)
		id := uuid.New()
		boom := errors.New("db down")
		orders.On("GetOrder", ctx, systemActor, id).Return(nil, boom)

		_, err := newPaymentOrderAdapter(orders).GetOrder(ctx, id)
		assert.ErrorIs(t, err, boom)
	})
}

func TestPaymentOrderAdapter_GetOrderByIntentID(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderDomain)
	orders.On("GetOrderByPaymentIntentID", ctx, "pi_missing").Return(nil, order.ErrOrderNotFound)

	got, err := newPaymentOrderAdapter(orders).GetOrderByIntentID(ctx, "pi_missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPaymentOrderAdapter_Delegates(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderDomain)
	id := uuid.New()
	orders.On("AttachPaymentIntent", ctx, id, model.PaymentProviderStripe, "pi_1", "").Return(nil)
	orders.On("ListAwaitingPayment", ctx, 10*time.Minute, 50).Return([]*model.Order{{ID: id}}, nil)

	a := newPaymentOrderAdapter(orders)
	require.NoError(t, a.AttachIntent(ctx, id, model.PaymentProviderStripe, "pi_1", ""))

	list, err := a.ListAwaitingPayment(ctx, 10*time.Minute, 50)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	orders.AssertExpectations(t)
}
