package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStockExhausted is returned when a stock adjustment would go below zero.
var ErrStockExhausted = errors.New("stock adjustment would go below zero")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// productAdapter implements outbound.ProductDatabasePort.
type productAdapter struct {
	db *gorm.DB
}

// NewProductAdapter creates a new product database adapter.
func NewProductAdapter(db *gorm.DB) outbound.ProductDatabasePort {
	return &productAdapter{db: db}
}

func (a *productAdapter) Create(ctx context.Context, product *model.Product) error {
	return translate(conn(ctx, a.db).Create(product).Error)
}

func (a *productAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := conn(ctx, a.db).Preload("Category").First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (a *productAdapter) List(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error) {
	var products []*model.Product
	var total int64

	query := applyProductFilter(conn(ctx, a.db).Model(&model.Product{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := clause.OrderByColumn{
		Column: clause.Column{Name: model.ProductSortField(filter.SortBy).Column()},
		Desc:   !filter.IsAsc(),
	}
	err := query.
		Preload("Category").
		Order(order).
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func applyProductFilter(query *gorm.DB, f *model.ProductFilter) *gorm.DB {
	if !f.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if f.Query != "" {
		like := containsPattern(f.Query)
		query = query.Where("name ILIKE ? OR description ILIKE ? OR brand ILIKE ?", like, like, like)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.Brand != "" {
		query = query.Where("LOWER(brand) = LOWER(?)", f.Brand)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		query = query.Where("stock > 0")
	}
	if f.MinRating != nil {
		query = query.Where("rating_avg >= ?", *f.MinRating)
	}
	if f.SellerID != nil {
		query = query.Where("seller_id = ?", *f.SellerID)
	}
	return query
}

func (a *productAdapter) Update(ctx context.Context, product *model.Product) error {
	return conn(ctx, a.db).Omit("Category").Save(product).Error
}

func (a *productAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Delete(&model.Product{}, "id = ?", id).Error
}

// LockByIDs takes row locks in id order so concurrent checkouts cannot deadlock.
func (a *productAdapter) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error) {
	var products []*model.Product
	err := conn(ctx, a.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (a *productAdapter) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := conn(ctx, a.db).
		Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrStockExhausted)
	}
	return nil
}

func (a *productAdapter) UpdateRating(ctx context.Context, id uuid.UUID, summary model.RatingSummary) error {
	return conn(ctx, a.db).
		Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_avg":   summary.Average,
			"review_count": summary.Count,
		}).Error
}

var _ outbound.ProductDatabasePort = (*productAdapter)(nil)
