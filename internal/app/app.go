package app

import (
	"context"
	"fmt"
	"time"

	ginhandler "github.com/carzone/server/internal/adapter/inbound/gin"
	paymentadapter "github.com/carzone/server/internal/adapter/outbound/payment"
	"github.com/carzone/server/internal/adapter/outbound/postgres"
	"github.com/carzone/server/internal/domain/admin"
	"github.com/carzone/server/internal/domain/auth"
	"github.com/carzone/server/internal/domain/cart"
	"github.com/carzone/server/internal/domain/catalog"
	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/domain/payment"
	"github.com/carzone/server/internal/domain/review"
	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/port/inbound"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/shared/config"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const startupTimeout = 30 * time.Second

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    goredis.UniversalClient
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	EventBus *events.Bus

	RateLimiter      outbound.RateLimiterPort
	Idempotency      outbound.IdempotencyStorePort
	PaymentDB        outbound.PaymentDatabasePort
	PaymentProviders *paymentadapter.Registry

	// Domains
	UserDomain    user.UserDomain
	AuthDomain    auth.AuthDomain
	CatalogDomain catalog.CatalogDomain
	CartDomain    cart.CartDomain
	OrderDomain   order.OrderDomain
	PaymentDomain payment.PaymentDomain
	ReviewDomain  review.ReviewDomain
	AdminDomain   admin.AdminDomain
	Reconciler    *payment.Reconciler

	// HTTP handlers
	AuthHandler         inbound.AuthHttpPort
	UserAdminHandler    inbound.UserAdminHttpPort
	CatalogHandler      inbound.CatalogHttpPort
	CatalogAdminHandler inbound.CatalogAdminHttpPort
	CartHandler         inbound.CartHttpPort
	OrderHandler        inbound.OrderHttpPort
	OrderAdminHandler   inbound.OrderAdminHttpPort
	PaymentHandler      inbound.PaymentHttpPort
	WebhookHandler      inbound.WebhookHttpPort
	ReviewHandler       inbound.ReviewHttpPort
	AdminHandler        inbound.AdminHttpPort
}

// App represents the application.
type App struct {
	config  *config.Config
	deps    *Dependencies
	router  *gin.Engine
	logger  *zap.Logger
	cleanup func()

	// reconciler is set once the background loop runs.
	reconciler *payment.Reconciler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := buildDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		config:  cfg,
		deps:    deps,
		logger:  deps.Logger,
		cleanup: cleanup,
	}

	app.registerEventHandlers()
	app.router = app.setupRouter()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := app.startModules(ctx); err != nil {
		app.Stop()
		return nil, fmt.Errorf("start modules: %w", err)
	}

	return app, nil
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Stop stops background work and releases connections.
func (a *App) Stop() {
	if a.reconciler != nil {
		a.reconciler.Stop()
	}
	if a.cleanup != nil {
		a.cleanup()
	}
	_ = a.logger.Sync()
}

// buildDependencies assembles the graph declared in wire.go.
func buildDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	log := ProvideLogger(cfg)

	db, closeDB, err := ProvideDatabase(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	redisClient, closeRedis := ProvideRedisClient(cfg, log)
	cleanup := func() {
		closeRedis()
		closeDB()
	}

	m := ProvideMetrics()
	bus := ProvideEventBus(log)

	// Outbound adapters
	userDB := postgres.NewUserAdapter(db)
	tokenDB := postgres.NewRefreshTokenAdapter(db)
	categoryDB := postgres.NewCategoryAdapter(db)
	productDB := postgres.NewProductAdapter(db)
	cartDB := postgres.NewCartAdapter(db)
	orderDB := postgres.NewOrderAdapter(db)
	paymentDB := postgres.NewPaymentAdapter(db)
	webhookDB := postgres.NewWebhookEventAdapter(db)
	reviewDB := postgres.NewReviewAdapter(db)
	tx := postgres.NewTransactionAdapter(db)
	store := postgres.NewStoreAdminAdapter(db)

	catalogCache := ProvideCatalogCache(redisClient)
	providers, err := ProvidePaymentProviders(cfg, m, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	images, err := ProvideImageStorage(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// Domains
	userDomain := user.NewUserDomain(userDB, ProvidePasswordHasher(cfg), log)
	authDomain := auth.NewAuthDomain(
		userDomain,
		tokenDB,
		ProvideOAuthRegistry(cfg),
		ProvideOAuthStateStore(redisClient),
		ProvideJWTManager(cfg),
		m,
		log,
	)
	catalogDomain := ProvideCatalogDomain(cfg, productDB, categoryDB, catalogCache, images, m, log)
	cartDomain := ProvideCartDomain(cfg, cartDB, productDB, m, log)
	orderDomain := order.NewOrderDomain(orderDB, cartDB, productDB, catalogCache, tx, bus, m, log)
	paymentDomain := ProvidePaymentDomain(cfg, paymentDB, webhookDB, providers,
		ProvidePaymentOrderPort(orderDomain), bus, m, log)
	reviewDomain := review.NewReviewDomain(reviewDB, productDB, userDB,
		ProvidePurchaseVerifier(orderDomain), catalogCache, tx, log)
	adminDomain := ProvideAdminDomain(cfg, store, catalogCache, log)

	deps := &Dependencies{
		Config:           cfg,
		DB:               db,
		Redis:            redisClient,
		Logger:           log,
		Metrics:          m,
		EventBus:         bus,
		RateLimiter:      ProvideRateLimiter(redisClient),
		Idempotency:      ProvideIdempotencyStore(redisClient),
		PaymentDB:        paymentDB,
		PaymentProviders: providers,

		UserDomain:    userDomain,
		AuthDomain:    authDomain,
		CatalogDomain: catalogDomain,
		CartDomain:    cartDomain,
		OrderDomain:   orderDomain,
		PaymentDomain: paymentDomain,
		ReviewDomain:  reviewDomain,
		AdminDomain:   adminDomain,
		Reconciler:    ProvideReconciler(cfg, paymentDomain, log),

		AuthHandler:         ginhandler.NewAuthHandler(authDomain),
		UserAdminHandler:    ginhandler.NewUserAdminHandler(userDomain),
		CatalogHandler:      ginhandler.NewCatalogHandler(catalogDomain),
		CatalogAdminHandler: ginhandler.NewCatalogAdminHandler(catalogDomain),
		CartHandler:         ginhandler.NewCartHandler(cartDomain),
		OrderHandler:        ginhandler.NewOrderHandler(orderDomain),
		OrderAdminHandler:   ginhandler.NewOrderAdminHandler(orderDomain),
		PaymentHandler:      ginhandler.NewPaymentHandler(paymentDomain),
		WebhookHandler:      ginhandler.NewWebhookHandler(paymentDomain),
		ReviewHandler:       ginhandler.NewReviewHandler(reviewDomain),
		AdminHandler:        ginhandler.NewAdminHandler(adminDomain),
	}
	return deps, cleanup, nil
}

// registerEventHandlers registers all domain event handlers.
func (a *App) registerEventHandlers() {
	bus := a.deps.EventBus

	// Order reacts to payment outcomes.
	bus.Register(order.NewEventHandler(a.deps.OrderDomain, a.logger))

	// Payment refunds or voids the intent of a cancelled order.
	bus.Register(payment.NewEventHandler(a.deps.PaymentDB, a.deps.PaymentProviders, bus, a.logger))

	bus.Register(events.NewHandlerFunc([]string{events.OrderStatusChangedType}, a.logStatusChange))
}

// logStatusChange writes an audit line for every fulfillment transition.
func (a *App) logStatusChange(_ context.Context, event events.Event) error {
	e, ok := event.(*events.OrderStatusChangedEvent)
	if !ok {
		return nil
	}
	a.logger.Info("order status changed",
		zap.String("order_id", e.OrderID.String()),
		zap.String("user_id", e.UserID.String()),
		zap.String("from", e.From),
		zap.String("to", e.To),
	)
	return nil
}

// startModules runs one-off startup tasks and starts background workers.
func (a *App) startModules(ctx context.Context) error {
	if email := a.config.Auth.AdminEmail; email != "" && a.config.Auth.AdminPassword != "" {
		if _, err := a.deps.UserDomain.SeedAdmin(ctx, email, a.config.Auth.AdminPassword, "Administrator"); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	purged, err := a.deps.AuthDomain.PurgeExpiredTokens(ctx)
	if err != nil {
		a.logger.Warn("purge expired refresh tokens", zap.Error(err))
	} else if purged > 0 {
		a.logger.Info("purged expired refresh tokens", zap.Int64("count", purged))
	}

	if len(a.deps.PaymentProviders.Names()) > 0 {
		a.reconciler = a.deps.Reconciler
		a.reconciler.Start()
	}
	return nil
}
