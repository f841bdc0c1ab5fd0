package model

import (
	"time"

	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
)

// OrderStatus is the fulfillment stage of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a valid order status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for delivered and cancelled.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// orderFlow is the forward-only fulfillment chain.
var orderFlow = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// Next returns the single forward status an admin may move the order to.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderFlow[s]
	return next, ok
}

// CanCancel returns true unless the status is terminal.
func (s OrderStatus) CanCancel() bool {
	return s.IsValid() && !s.IsTerminal()
}

// CanTransitionTo checks if a transition from the current status to target is valid.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		return s.CanCancel()
	}
	next, ok := s.Next()
	return ok && next == target
}

// OrderPaymentStatus tracks where an order is in its payment flow.
type OrderPaymentStatus string

const (
	OrderPaymentUnpaid   OrderPaymentStatus = "unpaid"
	OrderPaymentPending  OrderPaymentStatus = "pending"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentFailed   OrderPaymentStatus = "failed"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

// IsPaid returns true once money was collected and not returned.
func (s OrderPaymentStatus) IsPaid() bool {
	return s == OrderPaymentPaid
}

// AcceptsPayment returns true while a new payment attempt may start.
func (s OrderPaymentStatus) AcceptsPayment() bool {
	return s == OrderPaymentUnpaid || s == OrderPaymentPending || s == OrderPaymentFailed
}

// ShippingAddress is stored as a JSON document on the order.
type ShippingAddress struct {
	FullName   string `json:"full_name" binding:"required,max=120"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2,omitempty" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state,omitempty" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
	Phone      string `json:"phone,omitempty" binding:"max=30"`
}

// Order is a checked-out cart.
type Order struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	OrderNumber     string             `json:"order_number" gorm:"uniqueIndex;not null"`
	UserID          uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	Items           []*OrderItem       `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	TotalAmount     int64              `json:"total_amount" gorm:"not null"`
	Currency        string             `json:"currency" gorm:"not null;default:usd"`
	Status          OrderStatus        `json:"order_status" gorm:"column:order_status;not null;default:pending;index"`
	PaymentStatus   OrderPaymentStatus `json:"payment_status" gorm:"not null;default:unpaid;index"`
	PaymentProvider string             `json:"payment_provider,omitempty"`
	PaymentIntentID *string            `json:"payment_intent_id,omitempty" gorm:"index"`
	PaymentDate     *time.Time         `json:"payment_date,omitempty"`
	ShippingAddress ShippingAddress    `json:"shipping_address" gorm:"serializer:json;type:jsonb"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	ShippedAt       *time.Time         `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (Order) TableName() string {
	return "orders"
}

// ItemsTotal sums price_at_time_of_order × quantity over the line items.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

// HasIntent returns true if a payment intent is attached.
func (o *Order) HasIntent() bool {
	return o.PaymentIntentID != nil && *o.PaymentIntentID != ""
}

// OrderItem is an immutable snapshot of a cart line taken at checkout.
type OrderItem struct {
	ID                 uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName        string    `json:"product_name" gorm:"not null"`
	PriceAtTimeOfOrder int64     `json:"price_at_time_of_order" gorm:"column:price_at_time_of_order;not null"`
	Quantity           int       `json:"quantity" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`
}

// TableName returns the table name for GORM.
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns price_at_time_of_order × quantity.
func (i *OrderItem) Subtotal() int64 {
	return i.PriceAtTimeOfOrder * int64(i.Quantity)
}

// OrderFilter represents order query filters.
type OrderFilter struct {
	UserID        *uuid.UUID          `form:"-"`
	Status        *OrderStatus        `form:"status"`
	PaymentStatus *OrderPaymentStatus `form:"payment_status"`
	pagination.Pagination
}

// CheckoutRequest turns the caller's cart into an order.
type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address" binding:"required"`
}

// CancelOrderRequest cancels an order.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateOrderStatusRequest is the admin payload for moving an order along.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
	Reason string      `json:"reason" binding:"max=500"`
}

// OrderAction is one button the dashboard offers for an order.
type OrderAction struct {
	Label  string      `json:"label"`
	Status OrderStatus `json:"status"`
}

// OrderActions lists what an admin may do next with an order.
type OrderActions struct {
	OrderID uuid.UUID     `json:"order_id"`
	Current OrderStatus   `json:"current"`
	Actions []OrderAction `json:"actions"`
}

var actionLabels = map[OrderStatus]string{
	OrderStatusProcessing: "Start processing",
	OrderStatusShipped:    "Mark as shipped",
	OrderStatusDelivered:  "Mark as delivered",
	OrderStatusCancelled:  "Cancel order",
}

// Actions returns what an admin may do next: the single forward step, if
// any, followed by cancel unless the status is terminal.
func (s OrderStatus) Actions() []OrderAction {
	actions := make([]OrderAction, 0, 2)
	if next, ok := s.Next(); ok {
		actions = append(actions, OrderAction{Label: actionLabels[next], Status: next})
	}
	if s.CanCancel() {
		actions = append(actions, OrderAction{Label: actionLabels[OrderStatusCancelled], Status: OrderStatusCancelled})
	}
	return actions
}
