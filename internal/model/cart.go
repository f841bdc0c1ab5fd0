package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a (product, quantity) pair owned by a user before checkout.
type CartItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with the live product data.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"`
	Subtotal  int64     `json:"subtotal"`
	Available bool      `json:"available"`
}

// Cart is the computed view of a user's cart.
type Cart struct {
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"item_count"`
	Total     int64      `json:"total"`
	Currency  string     `json:"currency"`
}

// AddToCartRequest adds a product to the cart, merging with an existing line.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,gte=1"`
}

// UpdateCartItemRequest sets the quantity of a cart line.
// A quantity below 1 leaves the cart unchanged.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
