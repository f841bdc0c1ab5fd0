package outbound

import (
	"context"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// OrderDatabasePort defines order persistence operations.
// Lookups return (nil, nil) when nothing matches.
type OrderDatabasePort interface {
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *model.Order) error

	// GetByID returns the order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUpdate returns the order locked for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)

	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*model.Order, error)
	List(ctx context.Context, filter *model.OrderFilter) ([]*model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error

	// ListAwaitingPayment returns non-cancelled orders holding an intent whose
	// payment_status is pending or failed and whose last update is older
	// than the cutoff.
	ListAwaitingPayment(ctx context.Context, updatedBefore time.Time, limit int) ([]*model.Order, error)

	// HasPurchased reports whether the user bought the product in a
	// non-cancelled order that was paid or delivered.
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
