package inbound

import "github.com/gin-gonic/gin"

// AdminHttpPort defines HTTP handler interface for store maintenance.
type AdminHttpPort interface {
	// GetStats handles GET /admin/stats
	GetStats(c *gin.Context)

	// ResetData handles POST /admin/reset
	ResetData(c *gin.Context)
}
