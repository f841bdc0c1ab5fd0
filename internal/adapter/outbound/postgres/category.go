package postgres

import (
	"context"
	"errors"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// categoryAdapter implements outbound.CategoryDatabasePort.
type categoryAdapter struct {
	db *gorm.DB
}

// NewCategoryAdapter creates a new category database adapter.
func NewCategoryAdapter(db *gorm.DB) outbound.CategoryDatabasePort {
	return &categoryAdapter{db: db}
}

func (a *categoryAdapter) Create(ctx context.Context, category *model.Category) error {
	return translate(conn(ctx, a.db).Create(category).Error)
}

func (a *categoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return a.first(ctx, "id = ?", id)
}

func (a *categoryAdapter) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return a.first(ctx, "slug = ?", slug)
}

func (a *categoryAdapter) first(ctx context.Context, query string, args ...any) (*model.Category, error) {
	var c model.Category
	err := conn(ctx, a.db).Where(query, args...).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (a *categoryAdapter) List(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	if err := conn(ctx, a.db).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (a *categoryAdapter) Update(ctx context.Context, category *model.Category) error {
	return translate(conn(ctx, a.db).Save(category).Error)
}

func (a *categoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Delete(&model.Category{}, "id = ?", id).Error
}

func (a *categoryAdapter) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, a.db).Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

var _ outbound.CategoryDatabasePort = (*categoryAdapter)(nil)
