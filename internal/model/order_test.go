package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Next(t *testing.T) {
	tests := []struct {
		from   OrderStatus
		want   OrderStatus
		wantOK bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, "", false},
		{OrderStatusCancelled, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			next, ok := tt.from.Next()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	t.Run("forward chain only", func(t *testing.T) {
		assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusProcessing))
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusShipped))
		assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
		assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusProcessing))
		assert.False(t, OrderStatusProcessing.CanTransitionTo(OrderStatusPending))
	})

	t.Run("cancel from any non-terminal state", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped} {
			assert.True(t, s.CanTransitionTo(OrderStatusCancelled), s)
		}
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, s := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
			assert.True(t, s.IsTerminal())
			assert.False(t, s.CanCancel())
			for _, target := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
				assert.False(t, s.CanTransitionTo(target), "%s -> %s", s, target)
			}
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		assert.False(t, OrderStatus("lost").CanCancel())
		assert.False(t, OrderStatus("lost").CanTransitionTo(OrderStatusCancelled))
	})
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := &Order{Items: []*OrderItem{
		{PriceAtTimeOfOrder: 1999, Quantity: 2},
		{PriceAtTimeOfOrder: 500, Quantity: 3},
	}}
	assert.Equal(t, int64(1999*2+500*3), o.ItemsTotal())
	assert.Equal(t, int64(0), (&Order{}).ItemsTotal())
}

func TestOrderPaymentStatus(t *testing.T) {
	assert.True(t, OrderPaymentUnpaid.AcceptsPayment())
	assert.True(t, OrderPaymentFailed.AcceptsPayment())
	assert.False(t, OrderPaymentPaid.AcceptsPayment())
	assert.False(t, OrderPaymentRefunded.AcceptsPayment())
	assert.True(t, OrderPaymentPaid.IsPaid())
}

func TestMoney(t *testing.T) {
	a := NewMoney(1250, "")
	assert.Equal(t, DefaultCurrency, a.Currency())

	sum, err := a.Add(NewMoney(250, "USD"))
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), sum.Amount())

	_, err = a.Add(NewMoney(1, "eur"))
	assert.Error(t, err)

	assert.Equal(t, int64(3750), a.Multiply(3).Amount())
	assert.Equal(t, "12.50 USD", a.String())
	assert.Equal(t, "-0.05 USD", NewMoney(-5, "usd").String())
}

func TestOrderStatus_Actions(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   []OrderStatus
	}{
		{OrderStatusPending, []OrderStatus{OrderStatusProcessing, OrderStatusCancelled}},
		{OrderStatusProcessing, []OrderStatus{OrderStatusShipped, OrderStatusCancelled}},
		{OrderStatusShipped, []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}},
		{OrderStatusDelivered, []OrderStatus{}},
		{OrderStatusCancelled, []OrderStatus{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := make([]OrderStatus, 0)
			for _, a := range tt.status.Actions() {
				assert.NotEmpty(t, a.Label)
				got = append(got, a.Status)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
