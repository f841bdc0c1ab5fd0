package app

import (
	"net/http"
	"time"

	_ "github.com/carzone/server/docs" // swagger docs
	"github.com/carzone/server/internal/model"
	"github.com/carzone/server/internal/utils/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Sign-in and payment endpoints get a tighter budget than the rest of the API.
const (
	authRateLimit  = 10
	authRateWindow = time.Minute

	paymentRateLimit  = 20
	paymentRateWindow = time.Minute
)

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = a.config.Server.AllowedOrigins

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(cors))
	r.Use(middleware.Metrics(a.deps.Metrics))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	api := r.Group("/api")
	if limiter := a.deps.RateLimiter; limiter != nil && a.config.Server.RateLimit > 0 {
		api.Use(middleware.RateLimitByIP(limiter, a.config.Server.RateLimit, a.config.Server.RateWindow))
	}
	a.registerRoutes(api)

	return r
}

// health reports whether the database answers.
func (a *App) health(c *gin.Context) {
	sqlDB, err := a.deps.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerRoutes mounts every API endpoint under api.
func (a *App) registerRoutes(api *gin.RouterGroup) {
	d := a.deps
	requireAuth := middleware.RequireAuth(middleware.ValidatorFunc(d.AuthDomain.ValidateAccessToken))
	idempotent := a.idempotency()
	// Each intent request reaches the payment provider.
	payLimit := middleware.RateLimitByUser(d.RateLimiter, paymentRateLimit, paymentRateWindow)

	// Auth
	authGroup := api.Group("/auth")
	{
		sensitive := authGroup.Group("")
		if d.RateLimiter != nil {
			sensitive.Use(middleware.RateLimitByEndpoint(d.RateLimiter, authRateLimit, authRateWindow))
		}
		sensitive.POST("/register", d.AuthHandler.Register)
		sensitive.POST("/login", d.AuthHandler.Login)
		sensitive.POST("/refresh", d.AuthHandler.RefreshToken)
		sensitive.GET("/oauth/:provider", d.AuthHandler.OAuthURL)
		sensitive.POST("/oauth/:provider/callback", d.AuthHandler.OAuthCallback)

		authGroup.POST("/logout", requireAuth, d.AuthHandler.Logout)
		authGroup.GET("/me", requireAuth, d.AuthHandler.GetMe)
	}

	// Public catalog
	api.GET("/products", d.CatalogHandler.ListProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)
	api.GET("/products/:id/reviews", d.ReviewHandler.ListReviews)
	api.GET("/categories", d.CatalogHandler.ListCategories)
	api.GET("/categories/:id", d.CatalogHandler.GetCategory)

	// Provider webhooks authenticate by signature.
	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/stripe", d.WebhookHandler.HandleStripeWebhook)
		webhooks.POST("/alipay", d.WebhookHandler.HandleAlipayNotify)
	}

	protected := api.Group("")
	protected.Use(requireAuth)

	cartGroup := protected.Group("/cart")
	{
		cartGroup.GET("", d.CartHandler.GetCart)
		cartGroup.POST("", d.CartHandler.AddItem)
		cartGroup.DELETE("", d.CartHandler.ClearCart)
		cartGroup.PUT("/:product_id", d.CartHandler.UpdateItem)
		cartGroup.DELETE("/:product_id", d.CartHandler.RemoveItem)
	}

	orders := protected.Group("/orders")
	{
		orders.POST("", idempotent, d.OrderHandler.Checkout)
		orders.GET("", d.OrderHandler.ListOrders)
		orders.GET("/:id", d.OrderHandler.GetOrder)
		orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)
		orders.POST("/:id/payment-intent", payLimit, idempotent, d.PaymentHandler.CreatePaymentIntent)
		orders.POST("/:id/confirm-payment", payLimit, idempotent, d.PaymentHandler.ConfirmPayment)
		orders.POST("/:id/alipay", payLimit, idempotent, d.PaymentHandler.CreateAlipayPayment)
	}

	protected.POST("/products/:id/reviews", d.ReviewHandler.CreateReview)
	protected.PUT("/reviews/:id", d.ReviewHandler.UpdateReview)
	protected.DELETE("/reviews/:id", d.ReviewHandler.DeleteReview)

	// Seller and admin dashboard
	adminGroup := protected.Group("/admin")
	{
		staff := adminGroup.Group("")
		staff.Use(middleware.RequireRole(model.UserRoleSeller, model.UserRoleAdmin))
		staff.GET("/products", d.CatalogAdminHandler.ListManagedProducts)
		staff.POST("/products", d.CatalogAdminHandler.CreateProduct)
		staff.PUT("/products/:id", d.CatalogAdminHandler.UpdateProduct)
		staff.DELETE("/products/:id", d.CatalogAdminHandler.DeleteProduct)
		staff.POST("/products/:id/images", d.CatalogAdminHandler.CreateImageUpload)

		admins := adminGroup.Group("")
		admins.Use(middleware.RequireRole(model.UserRoleAdmin))
		admins.POST("/categories", d.CatalogAdminHandler.CreateCategory)
		admins.PUT("/categories/:id", d.CatalogAdminHandler.UpdateCategory)
		admins.DELETE("/categories/:id", d.CatalogAdminHandler.DeleteCategory)

		admins.GET("/orders", d.OrderAdminHandler.ListAllOrders)
		admins.GET("/orders/:id", d.OrderAdminHandler.GetAnyOrder)
		admins.GET("/orders/:id/actions", d.OrderAdminHandler.GetOrderActions)
		admins.PATCH("/orders/:id/status", d.OrderAdminHandler.UpdateOrderStatus)

		admins.GET("/users", d.UserAdminHandler.ListUsers)
		admins.GET("/users/:id", d.UserAdminHandler.GetUser)
		admins.PATCH("/users/:id", d.UserAdminHandler.UpdateUser)
		admins.DELETE("/users/:id", d.UserAdminHandler.DeleteUser)

		admins.GET("/stats", d.AdminHandler.GetStats)
		admins.POST("/reset", d.AdminHandler.ResetData)
	}
}

// idempotency returns the Idempotency-Key middleware. Without a store it passes through.
func (a *App) idempotency() gin.HandlerFunc {
	return middleware.Idempotency(a.deps.Idempotency, middleware.IdempotencyConfig{
		TTL:    a.config.Payment.IdempotencyTTL,
		Logger: a.logger,
	})
}
