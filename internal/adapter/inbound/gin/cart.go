package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/cart"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// cartHandler implements inbound.CartHttpPort.
type cartHandler struct {
	cartDomain cart.CartDomain
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(cartDomain cart.CartDomain) inbound.CartHttpPort {
	return &cartHandler{cartDomain: cartDomain}
}

// GetCart returns the caller's cart priced from live product data.
//
//	@Summary	Get cart
//	@Tags		Cart
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.Cart
//	@Router		/cart [get]
func (h *cartHandler) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.cartDomain.GetCart(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddItem adds a product, merging with an existing line.
//
//	@Summary	Add to cart
//	@Tags		Cart
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.AddToCartRequest	true	"Product and quantity"
//	@Success	200		{object}	model.Cart
//	@Failure	422		{object}	errors.ErrorResponse
//	@Router		/cart [post]
func (h *cartHandler) AddItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.cartDomain.AddItem(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateItem sets a line's quantity. Quantities below 1 leave the cart unchanged.
//
//	@Summary	Update cart item
//	@Tags		Cart
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		product_id	path		string						true	"Product ID"
//	@Param		request		body		model.UpdateCartItemRequest	true	"Quantity"
//	@Success	200			{object}	model.Cart
//	@Failure	404			{object}	errors.ErrorResponse
//	@Router		/cart/{product_id} [put]
func (h *cartHandler) UpdateItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.cartDomain.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveItem drops a line.
//
//	@Summary	Remove cart item
//	@Tags		Cart
//	@Security	BearerAuth
//	@Produce	json
//	@Param		product_id	path		string	true	"Product ID"
//	@Success	200			{object}	model.Cart
//	@Router		/cart/{product_id} [delete]
func (h *cartHandler) RemoveItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}

	result, err := h.cartDomain.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearCart empties the cart.
//
//	@Summary	Clear cart
//	@Tags		Cart
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.Cart
//	@Router		/cart [delete]
func (h *cartHandler) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.cartDomain.ClearCart(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
