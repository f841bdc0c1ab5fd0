package outbound

import (
	"context"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/google/uuid"
)

// CategoryDatabasePort defines category persistence operations.
// Lookups return (nil, nil) when nothing matches.
type CategoryDatabasePort interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context) ([]*model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountProducts counts live products in the category.
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// ProductDatabasePort defines product persistence operations.
// Lookups return (nil, nil) when nothing matches.
type ProductDatabasePort interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter *model.ProductFilter) ([]*model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LockByIDs loads products with a row lock for the surrounding transaction.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Product, error)

	// AdjustStock adds delta (may be negative) to a product's stock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// UpdateRating stores the aggregate rating of a product.
	UpdateRating(ctx context.Context, id uuid.UUID, summary model.RatingSummary) error
}

// CatalogCachePort caches read-mostly catalog data.
// Getters return (nil, nil) on a miss.
type CatalogCachePort interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	SetProduct(ctx context.Context, product *model.Product, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]*model.Category, error)
	SetCategories(ctx context.Context, categories []*model.Category, ttl time.Duration) error
	InvalidateProducts(ctx context.Context, ids ...uuid.UUID) error
	InvalidateCategories(ctx context.Context) error
	Flush(ctx context.Context) error
}

// PresignedUpload is a time-limited upload URL.
type PresignedUpload struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// ImageStoragePort stores product images in object storage.
type ImageStoragePort interface {
	// PresignUpload returns a URL the client can PUT the image to.
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)

	// PublicURL returns the URL the stored object is served from.
	PublicURL(key string) string

	// KeyFromURL returns the object key for a URL this storage produced.
	KeyFromURL(url string) (string, bool)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}
