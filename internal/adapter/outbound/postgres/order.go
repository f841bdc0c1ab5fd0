package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderAdapter implements outbound.OrderDatabasePort.
type orderAdapter struct {
	db *gorm.DB
}

// NewOrderAdapter creates a new order database adapter.
func NewOrderAdapter(db *gorm.DB) outbound.OrderDatabasePort {
	return &orderAdapter{db: db}
}

// Create inserts the order; gorm inserts Items through the association.
func (a *orderAdapter) Create(ctx context.Context, order *model.Order) error {
	return translate(conn(ctx, a.db).Create(order).Error)
}

func (a *orderAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return a.first(conn(ctx, a.db), "id = ?", id)
}

func (a *orderAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return a.first(conn(ctx, a.db).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (a *orderAdapter) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error) {
	return a.first(conn(ctx, a.db), "payment_intent_id = ?", paymentIntentID)
}

func (a *orderAdapter) first(db *gorm.DB, query string, args ...any) (*model.Order, error) {
	var order model.Order
	err := db.Where(query, args...).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// Items load separately: postgres refuses FOR UPDATE alongside the preload join.
	if err := db.Session(&gorm.Session{NewDB: true}).
		Where("order_id = ?", order.ID).
		Order("created_at ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *orderAdapter) List(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := conn(ctx, a.db).Model(&model.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("order_status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (a *orderAdapter) Update(ctx context.Context, order *model.Order) error {
	return conn(ctx, a.db).Omit(clause.Associations).Save(order).Error
}

func (a *orderAdapter) ListAwaitingPayment(ctx context.Context, updatedBefore time.Time, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := conn(ctx, a.db).
		Where("payment_status IN ? AND order_status <> ? AND payment_intent_id IS NOT NULL AND updated_at < ?",
			[]model.OrderPaymentStatus{model.OrderPaymentPending, model.OrderPaymentFailed},
			model.OrderStatusCancelled, updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (a *orderAdapter) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ?", userID, productID).
		Where("orders.order_status <> ?", model.OrderStatusCancelled).
		Where("orders.payment_status = ? OR orders.order_status = ?", model.OrderPaymentPaid, model.OrderStatusDelivered).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ outbound.OrderDatabasePort = (*orderAdapter)(nil)
