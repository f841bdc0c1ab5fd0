package inbound

import "github.com/gin-gonic/gin"

// OrderHttpPort defines HTTP handler interface for customer order operations.
type OrderHttpPort interface {
	// Checkout handles POST /orders
	Checkout(c *gin.Context)

	// ListOrders handles GET /orders
	ListOrders(c *gin.Context)

	// GetOrder handles GET /orders/:id
	GetOrder(c *gin.Context)

	// CancelOrder handles POST /orders/:id/cancel
	CancelOrder(c *gin.Context)
}

// OrderAdminHttpPort defines HTTP handler interface for order administration.
type OrderAdminHttpPort interface {
	// ListAllOrders handles GET /admin/orders
	ListAllOrders(c *gin.Context)

	// GetAnyOrder handles GET /admin/orders/:id
	GetAnyOrder(c *gin.Context)

	// GetOrderActions handles GET /admin/orders/:id/actions
	GetOrderActions(c *gin.Context)

	// UpdateOrderStatus handles PATCH /admin/orders/:id/status
	UpdateOrderStatus(c *gin.Context)
}
