package outbound

import (
	"context"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// UserDatabasePort defines user persistence operations.
type UserDatabasePort interface {
	// Create creates a new user.
	Create(ctx context.Context, user *model.User) error

	// FindByID finds a user by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindByEmail finds a user by email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByFilter finds users by filter.
	FindByFilter(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error)

	// Update updates a user.
	Update(ctx context.Context, user *model.User) error

	// SoftDelete soft deletes a user.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
