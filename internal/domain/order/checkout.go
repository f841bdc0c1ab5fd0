package order

import (
	"context"
	"fmt"
	"time"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/utils/random"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (d *orderDomain) Checkout(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	var order *model.Order
	err := d.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		cartItems, err := d.cartDB.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("list cart: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		ids := make([]uuid.UUID, 0, len(cartItems))
		for _, item := range cartItems {
			ids = append(ids, item.ProductID)
		}
		// Row locks keep concurrent checkouts from selling the same unit twice.
		products, err := d.productDB.LockByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("lock products: %w", err)
		}

		order, err = buildOrder(userID, req.ShippingAddress, cartItems, products)
		if err != nil {
			return err
		}
		if err := d.orderDB.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, item := range order.Items {
			if err := d.productDB.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
				return fmt.Errorf("reserve stock: %w", err)
			}
		}
		if err := d.cartDB.Clear(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.invalidateProducts(ctx, order.Items)
	d.metrics.RecordOrderCreated(order.Currency, order.TotalAmount)
	d.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int64("total", order.TotalAmount),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

// buildOrder snapshots the cart into a pending order. Each line records the
// product's current price; the total is the sum of those snapshots.
func buildOrder(userID uuid.UUID, address model.ShippingAddress, cartItems []*model.CartItem, products []*model.Product) (*model.Order, error) {
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     random.OrderNumber(now),
		UserID:          userID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.OrderPaymentUnpaid,
		ShippingAddress: address,
		Items:           make([]*model.OrderItem, 0, len(cartItems)),
	}

	total := model.Money{}
	for i, ci := range cartItems {
		p, ok := byID[ci.ProductID]
		if !ok || !p.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, ci.ProductID)
		}
		if p.Stock < ci.Quantity {
			return nil, fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, p.Name, p.Stock)
		}

		line := model.NewMoney(p.Price, p.Currency).Multiply(ci.Quantity)
		if i == 0 {
			total = model.NewMoney(0, p.Currency)
		}
		sum, err := total.Add(line)
		if err != nil {
			return nil, ErrCurrencyMismatch
		}
		total = sum

		order.Items = append(order.Items, &model.OrderItem{
			ID:                 uuid.New(),
			OrderID:            order.ID,
			ProductID:          p.ID,
			ProductName:        p.Name,
			PriceAtTimeOfOrder: p.Price,
			Quantity:           ci.Quantity,
		})
	}

	order.TotalAmount = total.Amount()
	order.Currency = total.Currency()
	return order, nil
}
