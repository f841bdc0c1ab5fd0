package outbound

import (
	"context"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// CartDatabasePort defines cart persistence operations.
type CartDatabasePort interface {
	// ListByUser returns the user's cart items with their products preloaded.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.CartItem, error)

	// Get returns one cart item, or (nil, nil) if the product is not in the cart.
	Get(ctx context.Context, userID, productID uuid.UUID) (*model.CartItem, error)

	// Save inserts or updates a cart item keyed by (user, product).
	Save(ctx context.Context, item *model.CartItem) error

	// Delete removes a product from the cart.
	Delete(ctx context.Context, userID, productID uuid.UUID) error

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}
