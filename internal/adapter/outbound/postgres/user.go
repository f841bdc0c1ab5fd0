package postgres

import (
	"context"
	"errors"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userAdapter implements outbound.UserDatabasePort.
type userAdapter struct {
	db *gorm.DB
}

// NewUserAdapter creates a new user database adapter.
func NewUserAdapter(db *gorm.DB) outbound.UserDatabasePort {
	return &userAdapter{db: db}
}

func (a *userAdapter) Create(ctx context.Context, u *model.User) error {
	return translate(conn(ctx, a.db).Create(u).Error)
}

func (a *userAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := conn(ctx, a.db).First(&u, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (a *userAdapter) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := conn(ctx, a.db).First(&u, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (a *userAdapter) FindByFilter(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	query := conn(ctx, a.db).Model(&model.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Offset(filter.Offset()).Limit(filter.Limit()).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (a *userAdapter) Update(ctx context.Context, u *model.User) error {
	return translate(conn(ctx, a.db).Save(u).Error)
}

// SoftDelete stamps deleted_at; gorm hides the row from later queries.
func (a *userAdapter) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Delete(&model.User{}, "id = ?", id).Error
}

var _ outbound.UserDatabasePort = (*userAdapter)(nil)
