package order

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/carzone/server/internal/utils/pagination"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderDomain defines the order domain service interface.
type OrderDomain interface {
	// Checkout turns the user's cart into a pending order.
	Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error)

	// GetOrder returns an order visible to the actor. Customers only see their own.
	GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)

	// ListOrders lists orders. Non-admin actors are restricted to their own orders.
	ListOrders(ctx context.Context, actor model.Actor, filter *model.OrderFilter) ([]*model.Order, int64, error)

	// CancelOrder cancels an order. Customers may only cancel while pending;
	// admins may cancel any non-terminal order.
	CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error)

	// UpdateStatus moves an order along its lifecycle on behalf of an admin.
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error)

	// NextActions returns the transitions an admin may apply to the order.
	NextActions(ctx context.Context, id uuid.UUID) (*model.OrderActions, error)

	// Payment bookkeeping, driven by the payment domain.
	GetOrderByPaymentIntentID(ctx context.Context, intentID string) (*model.Order, error)
	AttachPaymentIntent(ctx context.Context, id uuid.UUID, provider model.PaymentProvider, intentID, replaces string) error
	ListAwaitingPayment(ctx context.Context, olderThan time.Duration, limit int) ([]*model.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, intentID string, paidAt time.Time) error
	MarkPaymentFailed(ctx context.Context, id uuid.UUID) error
	MarkRefunded(ctx context.Context, id uuid.UUID) error

	// HasPurchased reports whether the user bought the product.
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type orderDomain struct {
	orderDB   outbound.OrderDatabasePort
	cartDB    outbound.CartDatabasePort
	productDB outbound.ProductDatabasePort
	cache     outbound.CatalogCachePort
	tx        outbound.TransactionPort
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewOrderDomain creates a new order domain service. cache may be nil.
func NewOrderDomain(
	orderDB outbound.OrderDatabasePort,
	cartDB outbound.CartDatabasePort,
	productDB outbound.ProductDatabasePort,
	cache outbound.CatalogCachePort,
	tx outbound.TransactionPort,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) OrderDomain {
	return &orderDomain{
		orderDB:   orderDB,
		cartDB:    cartDB,
		productDB: productDB,
		cache:     cache,
		tx:        tx,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (d *orderDomain) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := d.orderDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	// Other users' orders look missing rather than forbidden.
	if order == nil || (!actor.IsAdmin() && order.UserID != actor.UserID) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (d *orderDomain) ListOrders(ctx context.Context, actor model.Actor, filter *model.OrderFilter) ([]*model.Order, int64, error) {
	if !actor.IsAdmin() {
		userID := actor.UserID
		filter.UserID = &userID
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, ErrInvalidStatus
	}
	filter.Pagination.Normalize(pagination.DefaultPageSize, pagination.MaxPageSize)
	return d.orderDB.List(ctx, filter)
}

func (d *orderDomain) CancelOrder(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error) {
	var (
		order *model.Order
		from  model.OrderStatus
	)
	err := d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = d.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() {
			if order.UserID != actor.UserID {
				return ErrOrderNotFound
			}
			if order.Status != model.OrderStatusPending {
				return ErrOrderNotCancellable
			}
		}
		from = order.Status
		return d.cancelLocked(ctx, order, reason)
	})
	if err != nil {
		return nil, err
	}

	d.afterCancel(ctx, order, from)
	return order, nil
}

func (d *orderDomain) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error) {
	target := req.Status
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	var (
		order *model.Order
		from  model.OrderStatus
	)
	err := d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = d.lockOrder(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if target == model.OrderStatusCancelled {
			return d.cancelLocked(ctx, order, req.Reason)
		}
		if !from.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}

		now := time.Now()
		order.Status = target
		switch target {
		case model.OrderStatusShipped:
			order.ShippedAt = &now
		case model.OrderStatusDelivered:
			order.DeliveredAt = &now
		}
		return d.orderDB.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if target == model.OrderStatusCancelled {
		d.afterCancel(ctx, order, from)
	} else {
		d.statusChanged(ctx, order, from)
	}
	return order, nil
}

func (d *orderDomain) NextActions(ctx context.Context, id uuid.UUID) (*model.OrderActions, error) {
	order, err := d.orderDB.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return &model.OrderActions{
		OrderID: order.ID,
		Current: order.Status,
		Actions: order.Status.Actions(),
	}, nil
}

// lockOrder loads the order FOR UPDATE. Must run inside a transaction.
func (d *orderDomain) lockOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := d.orderDB.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// cancelLocked cancels a locked order and puts its items back in stock.
func (d *orderDomain) cancelLocked(ctx context.Context, order *model.Order, reason string) error {
	if !order.Status.CanCancel() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderStatusCancelled)
	}

	for _, item := range order.Items {
		if err := d.productDB.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock: %w", err)
		}
	}

	now := time.Now()
	order.Status = model.OrderStatusCancelled
	order.CancelledAt = &now
	order.CancelReason = reason
	return d.orderDB.Update(ctx, order)
}

func (d *orderDomain) afterCancel(ctx context.Context, order *model.Order, from model.OrderStatus) {
	d.invalidateProducts(ctx, order.Items)
	d.statusChanged(ctx, order, from)

	var intentID string
	if order.PaymentIntentID != nil {
		intentID = *order.PaymentIntentID
	}
	evt := events.NewOrderCancelledEvent(order.ID, order.UserID, order.PaymentProvider, intentID,
		order.PaymentStatus.IsPaid(), order.TotalAmount, order.CancelReason)
	if err := d.publisher.Publish(ctx, evt); err != nil {
		// The reconciler settles intents a failed handler left open.
		d.logger.Error("order cancelled handlers failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func (d *orderDomain) statusChanged(ctx context.Context, order *model.Order, from model.OrderStatus) {
	d.metrics.RecordOrderTransition(string(from), string(order.Status))
	d.logger.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
	)
	evt := events.NewOrderStatusChangedEvent(order.ID, order.UserID, string(from), string(order.Status))
	if err := d.publisher.Publish(ctx, evt); err != nil {
		d.logger.Warn("order status handlers failed", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func (d *orderDomain) invalidateProducts(ctx context.Context, items []*model.OrderItem) {
	if d.cache == nil || len(items) == 0 {
		return
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	if err := d.cache.InvalidateProducts(ctx, ids...); err != nil {
		d.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

func (d *orderDomain) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	return d.orderDB.HasPurchased(ctx, userID, productID)
}
