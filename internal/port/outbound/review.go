package outbound

import (
	"context"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// ReviewDatabasePort defines review persistence operations.
// Lookups return (nil, nil) when nothing matches.
type ReviewDatabasePort interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*model.Review, error)
	List(ctx context.Context, filter *model.ReviewFilter) ([]*model.Review, int64, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Summary aggregates the ratings of a product.
	Summary(ctx context.Context, productID uuid.UUID) (model.RatingSummary, error)
}

// PurchaseVerifierPort answers whether a user bought a product.
type PurchaseVerifierPort interface {
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
