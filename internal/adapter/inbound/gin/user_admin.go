package gin

import (
	"net/http"

	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/carzone/server/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// userAdminHandler implements inbound.UserAdminHttpPort.
type userAdminHandler struct {
	userDomain user.UserDomain
}

// NewUserAdminHandler creates a new user admin HTTP handler.
func NewUserAdminHandler(userDomain user.UserDomain) inbound.UserAdminHttpPort {
	return &userAdminHandler{userDomain: userDomain}
}

// ListUsers lists accounts.
//
//	@Summary	List users
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		role		query		string	false	"customer, seller or admin"
//	@Param		status		query		string	false	"active or suspended"
//	@Param		q			query		string	false	"Email or name search"
//	@Param		page		query		int		false	"Page"
//	@Param		page_size	query		int		false	"Page size"
//	@Success	200			{object}	model.PaginatedResponse[model.User]
//	@Router		/admin/users [get]
func (h *userAdminHandler) ListUsers(c *gin.Context) {
	var filter model.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	filter.Pagination.Normalize(pagination.DefaultPageSize, pagination.MaxPageSize)

	users, total, err := h.userDomain.ListUsers(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.NewPaginatedResponse(users, total, filter.Pagination))
}

// GetUser returns one account.
//
//	@Summary	Get user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	model.User
//	@Failure	404	{object}	errors.ErrorResponse
//	@Router		/admin/users/{id} [get]
func (h *userAdminHandler) GetUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	u, err := h.userDomain.GetUser(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// UpdateUser changes a user's role, status or name.
//
//	@Summary	Update user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"User ID"
//	@Param		request	body		model.UpdateUserRequest	true	"Changes"
//	@Success	200		{object}	model.User
//	@Failure	403		{object}	errors.ErrorResponse
//	@Router		/admin/users/{id} [patch]
func (h *userAdminHandler) UpdateUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	u, err := h.userDomain.UpdateUser(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// DeleteUser removes an account.
//
//	@Summary	Delete user
//	@Tags		Admin
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204
//	@Router		/admin/users/{id} [delete]
func (h *userAdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userDomain.DeleteUser(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
