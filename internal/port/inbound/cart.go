package inbound

import "github.com/gin-gonic/gin"

// CartHttpPort defines HTTP handler interface for the shopping cart.
type CartHttpPort interface {
	// GetCart handles GET /cart
	GetCart(c *gin.Context)

	// AddItem handles POST /cart
	AddItem(c *gin.Context)

	// UpdateItem handles PUT /cart/:product_id
	UpdateItem(c *gin.Context)

	// RemoveItem handles DELETE /cart/:product_id
	RemoveItem(c *gin.Context)

	// ClearCart handles DELETE /cart
	ClearCart(c *gin.Context)
}
