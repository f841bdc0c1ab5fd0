package inbound

import "github.com/gin-gonic/gin"

// UserAdminHttpPort defines HTTP handler interface for user administration.
type UserAdminHttpPort interface {
	// ListUsers handles GET /admin/users
	ListUsers(c *gin.Context)

	// GetUser handles GET /admin/users/:id
	GetUser(c *gin.Context)

	// UpdateUser handles PATCH /admin/users/:id
	UpdateUser(c *gin.Context)

	// DeleteUser handles DELETE /admin/users/:id
	DeleteUser(c *gin.Context)
}
