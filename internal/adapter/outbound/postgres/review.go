package postgres

import (
	"context"
	"errors"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reviewAdapter implements outbound.ReviewDatabasePort.
type reviewAdapter struct {
	db *gorm.DB
}

// NewReviewAdapter creates a new review database adapter.
func NewReviewAdapter(db *gorm.DB) outbound.ReviewDatabasePort {
	return &reviewAdapter{db: db}
}

func (a *reviewAdapter) Create(ctx context.Context, review *model.Review) error {
	return translate(conn(ctx, a.db).Create(review).Error)
}

func (a *reviewAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return a.first(ctx, "id = ?", id)
}

func (a *reviewAdapter) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.Review, error) {
	return a.first(ctx, "user_id = ? AND product_id = ?", userID, productID)
}

func (a *reviewAdapter) first(ctx context.Context, query string, args ...any) (*model.Review, error) {
	var r model.Review
	err := conn(ctx, a.db).Where(query, args...).First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (a *reviewAdapter) List(ctx context.Context, filter *model.ReviewFilter) ([]*model.Review, int64, error) {
	var reviews []*model.Review
	var total int64

	query := conn(ctx, a.db).Model(&model.Review{}).Where("product_id = ?", filter.ProductID)
	if filter.MinRating > 0 {
		query = query.Where("rating >= ?", filter.MinRating)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (a *reviewAdapter) Update(ctx context.Context, review *model.Review) error {
	return conn(ctx, a.db).Save(review).Error
}

func (a *reviewAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Delete(&model.Review{}, "id = ?", id).Error
}

func (a *reviewAdapter) Summary(ctx context.Context, productID uuid.UUID) (model.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int
	}
	err := conn(ctx, a.db).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error
	if err != nil {
		return model.RatingSummary{}, err
	}
	return model.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

var _ outbound.ReviewDatabasePort = (*reviewAdapter)(nil)
