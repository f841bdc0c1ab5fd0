package inbound

import "github.com/gin-gonic/gin"

// AuthHttpPort defines HTTP handler interface for authentication.
type AuthHttpPort interface {
	// Register handles POST /auth/register
	Register(c *gin.Context)

	// Login handles POST /auth/login
	Login(c *gin.Context)

	// RefreshToken handles POST /auth/refresh
	RefreshToken(c *gin.Context)

	// Logout handles POST /auth/logout
	Logout(c *gin.Context)

	// GetMe handles GET /auth/me
	GetMe(c *gin.Context)

	// OAuthURL handles GET /auth/oauth/:provider
	OAuthURL(c *gin.Context)

	// OAuthCallback handles POST /auth/oauth/:provider/callback
	OAuthCallback(c *gin.Context)
}
