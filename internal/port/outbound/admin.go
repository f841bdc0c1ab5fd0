package outbound

import (
	"context"

	"github.com/carzone/server/internal/model"
)

// StoreAdminPort covers store-wide maintenance queries.
type StoreAdminPort interface {
	// Stats computes the dashboard overview.
	Stats(ctx context.Context) (*model.DashboardStats, error)

	// Reset truncates transactional tables and, when includeCatalog is set,
	// products and categories. It returns the tables it cleared.
	Reset(ctx context.Context, includeCatalog bool) ([]string, error)
}
