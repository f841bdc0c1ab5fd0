package postgres

import (
	"context"
	"errors"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// paymentAdapter implements outbound.PaymentDatabasePort.
type paymentAdapter struct {
	db *gorm.DB
}

// NewPaymentAdapter creates a new payment database adapter.
func NewPaymentAdapter(db *gorm.DB) outbound.PaymentDatabasePort {
	return &paymentAdapter{db: db}
}

func (a *paymentAdapter) Create(ctx context.Context, payment *model.Payment) error {
	return translate(conn(ctx, a.db).Create(payment).Error)
}

func (a *paymentAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return a.first(ctx, "id = ?", id)
}

func (a *paymentAdapter) FindByIntentID(ctx context.Context, intentID string) (*model.Payment, error) {
	return a.first(ctx, "provider_intent_id = ?", intentID)
}

func (a *paymentAdapter) first(ctx context.Context, query string, args ...any) (*model.Payment, error) {
	var p model.Payment
	err := conn(ctx, a.db).Where(query, args...).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (a *paymentAdapter) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := conn(ctx, a.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (a *paymentAdapter) Update(ctx context.Context, payment *model.Payment) error {
	return conn(ctx, a.db).Save(payment).Error
}

var _ outbound.PaymentDatabasePort = (*paymentAdapter)(nil)
