package cart

import (
	"context"
	"fmt"

	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartDomain defines the cart domain service interface.
// Every mutation returns the full recomputed cart.
type CartDomain interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds quantity (default 1) of a product, merging with an existing line.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.Cart, error)

	// UpdateItem sets a line's quantity. A quantity below 1 leaves the cart unchanged.
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error)

	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
}

type cartDomain struct {
	cartDB          outbound.CartDatabasePort
	productDB       outbound.ProductDatabasePort
	maxItemQuantity int
	currency        string
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

// NewCartDomain creates a new cart domain service.
// maxItemQuantity <= 0 means lines are bounded by stock only.
func NewCartDomain(
	cartDB outbound.CartDatabasePort,
	productDB outbound.ProductDatabasePort,
	maxItemQuantity int,
	currency string,
	m *metrics.Metrics,
	logger *zap.Logger,
) CartDomain {
	return &cartDomain{
		cartDB:          cartDB,
		productDB:       productDB,
		maxItemQuantity: maxItemQuantity,
		currency:        currency,
		metrics:         m,
		logger:          logger,
	}
}

func (d *cartDomain) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	items, err := d.cartDB.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return BuildCart(items, d.currency), nil
}

func (d *cartDomain) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.Cart, error) {
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	product, err := d.productDB.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsPurchasable() {
		return nil, ErrProductUnavailable
	}

	existing, err := d.cartDB.Get(ctx, userID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if existing == nil {
		if err := d.checkCurrency(ctx, userID, product); err != nil {
			return nil, err
		}
		existing = &model.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: product.ID,
		}
	}

	total := existing.Quantity + qty
	if err := d.checkQuantity(product, total); err != nil {
		return nil, err
	}
	existing.Quantity = total

	if err := d.cartDB.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	d.metrics.RecordCartOperation("add")
	return d.GetCart(ctx, userID)
}

func (d *cartDomain) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return d.GetCart(ctx, userID)
	}

	item, err := d.cartDB.Get(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotInCart
	}
	if item.Quantity == quantity {
		return d.GetCart(ctx, userID)
	}

	product, err := d.productDB.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	// Decreasing is always allowed so shoppers can trim a line that went over stock.
	if quantity > item.Quantity {
		if !product.IsPurchasable() {
			return nil, ErrProductUnavailable
		}
		if err := d.checkQuantity(product, quantity); err != nil {
			return nil, err
		}
	}

	item.Quantity = quantity
	if err := d.cartDB.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	d.metrics.RecordCartOperation("update")
	return d.GetCart(ctx, userID)
}

func (d *cartDomain) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, error) {
	if err := d.cartDB.Delete(ctx, userID, productID); err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}
	d.metrics.RecordCartOperation("remove")
	return d.GetCart(ctx, userID)
}

func (d *cartDomain) ClearCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	if err := d.cartDB.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	d.metrics.RecordCartOperation("clear")
	return BuildCart(nil, d.currency), nil
}

func (d *cartDomain) checkQuantity(product *model.Product, qty int) error {
	if d.maxItemQuantity > 0 && qty > d.maxItemQuantity {
		return ErrQuantityLimit
	}
	if qty > product.Stock {
		return ErrInsufficientStock
	}
	return nil
}

// checkCurrency keeps a cart single-currency so it can be checked out as one order.
func (d *cartDomain) checkCurrency(ctx context.Context, userID uuid.UUID, product *model.Product) error {
	items, err := d.cartDB.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list cart: %w", err)
	}
	for _, item := range items {
		if item.Product != nil && item.Product.Currency != product.Currency {
			return ErrCurrencyMismatch
		}
	}
	return nil
}

// BuildCart joins cart items with their products and computes the totals.
// Items whose product vanished are skipped. Unavailable lines are listed
// but excluded from the total.
func BuildCart(items []*model.CartItem, defaultCurrency string) *model.Cart {
	cart := &model.Cart{
		Items:    make([]model.CartLine, 0, len(items)),
		Currency: defaultCurrency,
	}
	for _, item := range items {
		p := item.Product
		if p == nil {
			continue
		}
		available := p.IsActive && p.Stock >= item.Quantity
		line := model.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.PrimaryImage(),
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
			Stock:     p.Stock,
			Subtotal:  model.NewMoney(p.Price, p.Currency).Multiply(item.Quantity).Amount(),
			Available: available,
		}
		cart.Items = append(cart.Items, line)
		cart.Currency = p.Currency
		cart.ItemCount += item.Quantity
		if available {
			cart.Total += line.Subtotal
		}
	}
	return cart
}
