package app

import (
	"context"
	"fmt"

	ginhandler "github.com/carzone/server/internal/adapter/inbound/gin"
	"github.com/carzone/server/internal/adapter/outbound/oauth"
	paymentadapter "github.com/carzone/server/internal/adapter/outbound/payment"
	"github.com/carzone/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/carzone/server/internal/adapter/outbound/redis"
	s3adapter "github.com/carzone/server/internal/adapter/outbound/s3"
	"github.com/carzone/server/internal/domain/admin"
	"github.com/carzone/server/internal/domain/auth"
	"github.com/carzone/server/internal/domain/cart"
	"github.com/carzone/server/internal/domain/catalog"
	"github.com/carzone/server/internal/domain/order"
	"github.com/carzone/server/internal/domain/payment"
	"github.com/carzone/server/internal/domain/review"
	"github.com/carzone/server/internal/domain/user"
	"github.com/carzone/server/internal/infra/events"
	"github.com/carzone/server/internal/port/outbound"
	"github.com/carzone/server/internal/shared/cache"
	"github.com/carzone/server/internal/shared/config"
	"github.com/carzone/server/internal/shared/database"
	"github.com/carzone/server/internal/shared/logger"
	"github.com/carzone/server/internal/utils/metrics"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const metricsNamespace = "carzone"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideMetrics,
	ProvideEventBus,
	wire.Bind(new(events.Publisher), new(*events.Bus)),
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) *zap.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideDatabase opens the database and applies pending migrations when
// auto_migrate is on.
func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Warn("close database", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient connects to Redis. Redis is optional: without it the
// catalog cache, rate limiting and idempotency keys are disabled and OAuth
// state is kept in memory.
func ProvideRedisClient(cfg *config.Config, log *zap.Logger) (goredis.UniversalClient, func()) {
	if cfg.Redis.Address == "" {
		return nil, func() {}
	}
	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, continuing without it", zap.Error(err))
		return nil, func() {}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis", zap.Error(err))
		}
	}
}

// ProvideMetrics registers the Prometheus collectors.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New(metricsNamespace)
}

// ProvideEventBus creates the in-process domain event bus.
func ProvideEventBus(log *zap.Logger) *events.Bus {
	return events.NewBus(log)
}

// ===== Outbound Adapter Providers =====

// RepositorySet provides the Postgres adapters.
var RepositorySet = wire.NewSet(
	postgres.NewUserAdapter,
	postgres.NewRefreshTokenAdapter,
	postgres.NewCategoryAdapter,
	postgres.NewProductAdapter,
	postgres.NewCartAdapter,
	postgres.NewOrderAdapter,
	postgres.NewPaymentAdapter,
	postgres.NewWebhookEventAdapter,
	postgres.NewReviewAdapter,
	postgres.NewTransactionAdapter,
	postgres.NewStoreAdminAdapter,
)

// AdapterSet provides the remaining outbound adapters.
var AdapterSet = wire.NewSet(
	ProvideCatalogCache,
	ProvideRateLimiter,
	ProvideIdempotencyStore,
	ProvideOAuthStateStore,
	ProvideOAuthRegistry,
	ProvideJWTManager,
	ProvidePasswordHasher,
	ProvidePaymentProviders,
	wire.Bind(new(outbound.PaymentProviderRegistryPort), new(*paymentadapter.Registry)),
	ProvideImageStorage,
)

// ProvideCatalogCache returns the Redis catalog cache, or nil without Redis.
func ProvideCatalogCache(client goredis.UniversalClient) outbound.CatalogCachePort {
	if client == nil {
		return nil
	}
	return redisadapter.NewCatalogCache(client)
}

// ProvideRateLimiter returns the Redis rate limiter, or nil without Redis.
func ProvideRateLimiter(client goredis.UniversalClient) outbound.RateLimiterPort {
	if client == nil {
		return nil
	}
	return redisadapter.NewRateLimiter(client)
}

// ProvideIdempotencyStore returns the Redis idempotency store, or nil without Redis.
func ProvideIdempotencyStore(client goredis.UniversalClient) outbound.IdempotencyStorePort {
	if client == nil {
		return nil
	}
	return redisadapter.NewIdempotencyStore(client)
}

// ProvideOAuthStateStore keeps OAuth state in Redis, falling back to memory.
func ProvideOAuthStateStore(client goredis.UniversalClient) outbound.OAuthStateStorePort {
	if client == nil {
		return oauth.NewMemoryStateStore(redisadapter.DefaultOAuthStateTTL)
	}
	return redisadapter.NewOAuthStateStore(client, redisadapter.DefaultOAuthStateTTL)
}

// ProvideOAuthRegistry registers the configured sign-in providers.
func ProvideOAuthRegistry(cfg *config.Config) outbound.OAuthRegistryPort {
	return oauth.NewConfiguredRegistry(
		&oauth.Config{
			ClientID:     cfg.Auth.OAuth.GitHub.ClientID,
			ClientSecret: cfg.Auth.OAuth.GitHub.ClientSecret,
			RedirectURL:  cfg.Auth.OAuth.GitHub.RedirectURL,
		},
		&oauth.Config{
			ClientID:     cfg.Auth.OAuth.Google.ClientID,
			ClientSecret: cfg.Auth.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.Auth.OAuth.Google.RedirectURL,
		},
	)
}

// ProvideJWTManager creates the JWT manager.
func ProvideJWTManager(cfg *config.Config) outbound.JWTPort {
	return oauth.NewJWTManager(&oauth.JWTConfig{
		Secret:             cfg.Auth.JWTSecret,
		Issuer:             cfg.Auth.Issuer,
		AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
	})
}

// ProvidePasswordHasher creates the bcrypt password hasher.
func ProvidePasswordHasher(cfg *config.Config) outbound.PasswordHasherPort {
	return oauth.NewBcryptHasher(cfg.Auth.BcryptCost)
}

// ProvidePaymentProviders registers every configured payment provider
// behind a circuit breaker.
func ProvidePaymentProviders(cfg *config.Config, m *metrics.Metrics, log *zap.Logger) (*paymentadapter.Registry, error) {
	registry := paymentadapter.NewRegistry()
	breaker := paymentadapter.BreakerConfig{
		MaxFailures: cfg.Payment.BreakerMaxFailures,
		Timeout:     cfg.Payment.BreakerTimeout,
	}

	if cfg.Payment.Stripe.SecretKey != "" {
		stripe := paymentadapter.NewStripeProvider(&paymentadapter.StripeConfig{
			SecretKey:     cfg.Payment.Stripe.SecretKey,
			WebhookSecret: cfg.Payment.Stripe.WebhookSecret,
		})
		registry.Register(paymentadapter.WithBreaker(stripe, breaker, m, log))
	}

	if cfg.Payment.Alipay.AppID != "" {
		alipay, err := paymentadapter.NewAlipayProvider(&paymentadapter.AlipayConfig{
			AppID:           cfg.Payment.Alipay.AppID,
			PrivateKey:      cfg.Payment.Alipay.PrivateKey,
			AlipayPublicKey: cfg.Payment.Alipay.PublicKey,
			IsProd:          cfg.Payment.Alipay.IsProd,
			NotifyURL:       cfg.Server.PublicURL + "/api/webhooks/alipay",
			ReturnURL:       cfg.Server.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("create alipay provider: %w", err)
		}
		registry.Register(paymentadapter.WithBreaker(alipay, breaker, m, log))
	}

	if len(registry.Names()) == 0 {
		log.Warn("no payment provider configured, checkout payments are disabled")
	}
	return registry, nil
}

// ProvideImageStorage returns S3 image storage, or nil when storage is not configured.
func ProvideImageStorage(cfg *config.Config) (outbound.ImageStoragePort, error) {
	if !cfg.Storage.Enabled() {
		return nil, nil
	}
	s3Cfg := &s3adapter.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		PublicURL:       cfg.Storage.PublicURL,
		PresignExpiry:   cfg.Storage.PresignExpiry,
	}
	client, err := s3adapter.NewClient(context.Background(), s3Cfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return s3adapter.NewImageStorageAdapter(client, s3Cfg), nil
}

// ===== Domain Providers =====

// DomainSet provides all domain services.
var DomainSet = wire.NewSet(
	user.NewUserDomain,
	auth.NewAuthDomain,
	ProvideCatalogDomain,
	ProvideCartDomain,
	order.NewOrderDomain,
	ProvidePaymentOrderPort,
	ProvidePaymentDomain,
	ProvidePurchaseVerifier,
	review.NewReviewDomain,
	ProvideAdminDomain,
	ProvideReconciler,
)

// ProvideCatalogDomain creates the catalog domain.
func ProvideCatalogDomain(
	cfg *config.Config,
	productDB outbound.ProductDatabasePort,
	categoryDB outbound.CategoryDatabasePort,
	catalogCache outbound.CatalogCachePort,
	images outbound.ImageStoragePort,
	m *metrics.Metrics,
	log *zap.Logger,
) catalog.CatalogDomain {
	catalogCfg := catalog.DefaultConfig()
	if cfg.Catalog.CacheTTL > 0 {
		catalogCfg.CacheTTL = cfg.Catalog.CacheTTL
	}
	if cfg.Catalog.DefaultPageSize > 0 {
		catalogCfg.DefaultPageSize = cfg.Catalog.DefaultPageSize
	}
	if cfg.Catalog.MaxPageSize > 0 {
		catalogCfg.MaxPageSize = cfg.Catalog.MaxPageSize
	}
	if cfg.Payment.Currency != "" {
		catalogCfg.Currency = cfg.Payment.Currency
	}
	return catalog.NewCatalogDomain(productDB, categoryDB, catalogCache, images, catalogCfg, m, log)
}

// ProvideCartDomain creates the cart domain.
func ProvideCartDomain(
	cfg *config.Config,
	cartDB outbound.CartDatabasePort,
	productDB outbound.ProductDatabasePort,
	m *metrics.Metrics,
	log *zap.Logger,
) cart.CartDomain {
	return cart.NewCartDomain(cartDB, productDB, cfg.Order.MaxItemQuantity, cfg.Payment.Currency, m, log)
}

// ProvidePaymentOrderPort exposes the order domain to the payment domain.
func ProvidePaymentOrderPort(orders order.OrderDomain) outbound.PaymentOrderPort {
	return newPaymentOrderAdapter(orders)
}

// ProvidePaymentDomain creates the payment domain.
func ProvidePaymentDomain(
	cfg *config.Config,
	paymentDB outbound.PaymentDatabasePort,
	webhookDB outbound.WebhookEventDatabasePort,
	providers outbound.PaymentProviderRegistryPort,
	orders outbound.PaymentOrderPort,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) payment.PaymentDomain {
	paymentCfg := payment.DefaultConfig()
	paymentCfg.ReturnURL = cfg.Server.PublicURL
	if cfg.Payment.ReconcileAfter > 0 {
		paymentCfg.ReconcileAfter = cfg.Payment.ReconcileAfter
	}
	return payment.NewPaymentDomain(paymentDB, webhookDB, providers, orders, publisher, paymentCfg, m, log)
}

// ProvidePurchaseVerifier lets reviews ask the order domain about purchases.
func ProvidePurchaseVerifier(orders order.OrderDomain) outbound.PurchaseVerifierPort {
	return orders
}

// ProvideAdminDomain creates the admin domain.
func ProvideAdminDomain(
	cfg *config.Config,
	store outbound.StoreAdminPort,
	catalogCache outbound.CatalogCachePort,
	log *zap.Logger,
) admin.AdminDomain {
	return admin.NewAdminDomain(store, catalogCache, cfg.Payment.Currency, log)
}

// ProvideReconciler creates the background payment reconciler.
func ProvideReconciler(cfg *config.Config, domain payment.PaymentDomain, log *zap.Logger) *payment.Reconciler {
	return payment.NewReconciler(domain, cfg.Payment.ReconcileInterval, log)
}

// ===== Inbound Adapter Providers =====

// HandlerSet provides the HTTP handlers.
var HandlerSet = wire.NewSet(
	ginhandler.NewAuthHandler,
	ginhandler.NewUserAdminHandler,
	ginhandler.NewCatalogHandler,
	ginhandler.NewCatalogAdminHandler,
	ginhandler.NewCartHandler,
	ginhandler.NewOrderHandler,
	ginhandler.NewOrderAdminHandler,
	ginhandler.NewPaymentHandler,
	ginhandler.NewWebhookHandler,
	ginhandler.NewReviewHandler,
	ginhandler.NewAdminHandler,
)
