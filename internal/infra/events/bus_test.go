package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBus_PublishDispatchesInOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var calls []string
	bus.Register(NewHandlerFunc([]string{OrderCancelledType}, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return nil
	}))
	bus.Register(NewHandlerFunc([]string{OrderCancelledType, PaymentFailedType}, func(ctx context.Context, e Event) error {
		calls = append(calls, "second:"+e.EventType())
		return nil
	}))

	orderID := uuid.New()
	err := bus.Publish(context.Background(), NewOrderCancelledEvent(orderID, uuid.New(), "stripe", "pi_1", false, 100, ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second:" + OrderCancelledType}, calls)
}

func TestBus_PublishWithoutHandlers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	assert.NoError(t, bus.Publish(context.Background(), NewOrderStatusChangedEvent(uuid.New(), uuid.New(), "pending", "processing")))
}

func TestBus_HandlerErrorsAreIsolated(t *testing.T) {
	bus := NewBus(zap.NewNop())
	boom := errors.New("boom")

	secondRan := false
	bus.Register(NewHandlerFunc([]string{PaymentSucceededType}, func(ctx context.Context, e Event) error {
		return boom
	}))
	bus.Register(NewHandlerFunc([]string{PaymentSucceededType}, func(ctx context.Context, e Event) error {
		secondRan = true
		return nil
	}))

	evt := NewPaymentSucceededEvent(uuid.New(), uuid.New(), uuid.New(), "pi_1", 500, "usd", "stripe", evtTime())
	err := bus.Publish(context.Background(), evt)
	assert.ErrorIs(t, err, boom)
	assert.True(t, secondRan)
	assert.Equal(t, PaymentSucceededType, evt.EventType())
	assert.Equal(t, evt.PaymentID, evt.AggregateID())
}

func evtTime() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}
