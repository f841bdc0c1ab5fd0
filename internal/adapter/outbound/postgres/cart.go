package postgres

import (
	"context"
	"errors"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cartAdapter implements outbound.CartDatabasePort.
type cartAdapter struct {
	db *gorm.DB
}

// NewCartAdapter creates a new cart database adapter.
func NewCartAdapter(db *gorm.DB) outbound.CartDatabasePort {
	return &cartAdapter{db: db}
}

func (a *cartAdapter) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := conn(ctx, a.db).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (a *cartAdapter) Get(ctx context.Context, userID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := conn(ctx, a.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Save upserts on (user_id, product_id); the last writer's quantity wins.
func (a *cartAdapter) Save(ctx context.Context, item *model.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return conn(ctx, a.db).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

func (a *cartAdapter) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return conn(ctx, a.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{}).Error
}

func (a *cartAdapter) Clear(ctx context.Context, userID uuid.UUID) error {
	return conn(ctx, a.db).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

var _ outbound.CartDatabasePort = (*cartAdapter)(nil)
