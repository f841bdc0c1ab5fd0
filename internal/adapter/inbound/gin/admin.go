package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/admin"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// adminHandler implements inbound.AdminHttpPort.
type adminHandler struct {
	adminDomain admin.AdminDomain
}

// NewAdminHandler creates a new store admin HTTP handler.
func NewAdminHandler(adminDomain admin.AdminDomain) inbound.AdminHttpPort {
	return &adminHandler{adminDomain: adminDomain}
}

// GetStats returns counts and revenue for the dashboard.
//
//	@Summary	Dashboard stats
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	model.DashboardStats
//	@Router		/admin/stats [get]
func (h *adminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminDomain.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ResetData wipes orders, payments, carts and reviews, and the catalog when
// include_catalog is set. Users are kept.
//
//	@Summary	Reset store data
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.ResetDataRequest	true	"confirm must be RESET"
//	@Success	200		{object}	model.ResetDataResult
//	@Failure	400		{object}	errors.ErrorResponse
//	@Router		/admin/reset [post]
func (h *adminHandler) ResetData(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.ResetDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.adminDomain.Reset(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
