package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"go.uber.org/zap"
)

// AdminDomain covers store-wide administration.
type AdminDomain interface {
	// Stats returns the dashboard overview.
	Stats(ctx context.Context) (*model.DashboardStats, error)

	// Reset wipes orders, carts, payments and reviews, plus the catalog when asked.
	Reset(ctx context.Context, actor model.Actor, req *model.ResetDataRequest) (*model.ResetDataResult, error)
}

type adminDomain struct {
	store    outbound.StoreAdminPort
	cache    outbound.CatalogCachePort
	currency string
	logger   *zap.Logger
}

// NewAdminDomain creates a new admin domain service. cache may be nil.
func NewAdminDomain(store outbound.StoreAdminPort, cache outbound.CatalogCachePort, currency string, logger *zap.Logger) AdminDomain {
	if currency == "" {
		currency = model.DefaultCurrency
	}
	return &adminDomain{
		store:    store,
		cache:    cache,
		currency: currency,
		logger:   logger,
	}
}

func (d *adminDomain) Stats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}
	if stats.Currency == "" {
		stats.Currency = d.currency
	}
	for _, s := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	} {
		if stats.OrdersByStatus == nil {
			stats.OrdersByStatus = make(map[model.OrderStatus]int64)
		}
		if _, ok := stats.OrdersByStatus[s]; !ok {
			stats.OrdersByStatus[s] = 0
		}
	}
	return stats, nil
}

func (d *adminDomain) Reset(ctx context.Context, actor model.Actor, req *model.ResetDataRequest) (*model.ResetDataResult, error) {
	if req.Confirm != model.ResetConfirmation {
		return nil, ErrResetNotConfirmed
	}

	tables, err := d.store.Reset(ctx, req.IncludeCatalog)
	if err != nil {
		return nil, fmt.Errorf("reset store: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Flush(ctx); err != nil {
			d.logger.Warn("failed to flush catalog cache after reset", zap.Error(err))
		}
	}

	d.logger.Warn("store data reset",
		zap.String("admin_id", actor.UserID.String()),
		zap.Bool("include_catalog", req.IncludeCatalog),
		zap.Strings("tables", tables),
	)
	return &model.ResetDataResult{Tables: tables, At: time.Now().UTC()}, nil
}
