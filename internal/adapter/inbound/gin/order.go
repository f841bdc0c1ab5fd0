package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// orderHandler implements inbound.OrderHttpPort.
type orderHandler struct {
	orderDomain order.OrderDomain
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orderDomain order.OrderDomain) inbound.OrderHttpPort {
	return &orderHandler{orderDomain: orderDomain}
}

// Checkout turns the caller's cart into a pending order.
//
//	@Summary		Checkout
//	@Description	Snapshot the cart into an order, reserve stock and clear the cart
//	@Tags			Orders
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			Idempotency-Key	header		string					false	"Replay protection"
//	@Param			request			body		model.CheckoutRequest	true	"Shipping address"
//	@Success		201				{object}	model.Order
//	@Failure		422				{object}	errors.ErrorResponse
//	@Router			/orders [post]
func (h *orderHandler) Checkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ord, err := h.orderDomain.Checkout(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ord)
}

// ListOrders lists the caller's orders, newest first.
//
//	@Summary	List my orders
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status			query		string	false	"Order status"
//	@Param		payment_status	query		string	false	"Payment status"
//	@Param		page			query		int		false	"Page"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	model.PaginatedResponse[model.Order]
//	@Router		/orders [get]
func (h *orderHandler) ListOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	// Customers only ever see their own orders here, whatever their role.
	actor.Role = model.UserRoleCustomer
	listOrders(c, h.orderDomain, actor)
}

// GetOrder returns one of the caller's orders.
//
//	@Summary	Get my order
//	@Tags		Orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	model.Order
//	@Failure	404	{object}	errors.ErrorResponse
//	@Router		/orders/{id} [get]
func (h *orderHandler) GetOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	actor.Role = model.UserRoleCustomer
	getOrder(c, h.orderDomain, actor)
}

// CancelOrder cancels one of the caller's orders while it is still pending.
//
//	@Summary	Cancel order
//	@Tags		Orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string						true	"Order ID"
//	@Param		request	body		model.CancelOrderRequest	false	"Reason"
//	@Success	200		{object}	model.Order
//	@Failure	409		{object}	errors.ErrorResponse
//	@Router		/orders/{id}/cancel [post]
func (h *orderHandler) CancelOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	actor.Role = model.UserRoleCustomer
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.CancelOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	ord, err := h.orderDomain.CancelOrder(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ord)
}

// orderAdminHandler implements inbound.OrderAdminHttpPort.
type orderAdminHandler struct {
	orderDomain order.OrderDomain
}

// NewOrderAdminHandler creates a new order admin HTTP handler.
func NewOrderAdminHandler(orderDomain order.OrderDomain) inbound.OrderAdminHttpPort {
	return &orderAdminHandler{orderDomain: orderDomain}
}

// ListAllOrders lists orders across all customers.
//
//	@Summary	List all orders
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status			query		string	false	"Order status"
//	@Param		payment_status	query		string	false	"Payment status"
//	@Param		page			query		int		false	"Page"
//	@Param		page_size		query		int		false	"Page size"
//	@Success	200				{object}	model.PaginatedResponse[model.Order]
//	@Router		/admin/orders [get]
func (h *orderAdminHandler) ListAllOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	listOrders(c, h.orderDomain, actor)
}

// GetAnyOrder returns any order.
//
//	@Summary	Get any order
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	model.Order
//	@Router		/admin/orders/{id} [get]
func (h *orderAdminHandler) GetAnyOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	getOrder(c, h.orderDomain, actor)
}

// GetOrderActions returns the status changes the dashboard may offer.
//
//	@Summary	Next order actions
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	model.OrderActions
//	@Router		/admin/orders/{id}/actions [get]
func (h *orderAdminHandler) GetOrderActions(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actions, err := h.orderDomain.NextActions(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, actions)
}

// UpdateOrderStatus moves an order one step forward, or cancels it.
//
//	@Summary	Update order status
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Order ID"
//	@Param		request	body		model.UpdateOrderStatusRequest	true	"Target status"
//	@Success	200		{object}	model.Order
//	@Failure	409		{object}	errors.ErrorResponse
//	@Router		/admin/orders/{id}/status [patch]
func (h *orderAdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ord, err := h.orderDomain.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ord)
}

func listOrders(c *gin.Context, orderDomain order.OrderDomain, actor model.Actor) {
	var filter model.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	orders, total, err := orderDomain.ListOrders(c.Request.Context(), actor, &filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(orders, total, filter.Pagination))
}

func getOrder(c *gin.Context, orderDomain order.OrderDomain, actor model.Actor) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ord, err := orderDomain.GetOrder(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ord)
}
