package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/docs"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	engagementapp "github.com/storefront/backend/internal/application/engagement"
	identityapp "github.com/storefront/backend/internal/application/identity"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/mail"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/migrations"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Storefront backend API: catalog, session cart, checkout, orders and back office

//	@contact.name	Storefront Support

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const stockMetricsInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry first, so the log bridge can be attached before anything logs
	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.Enabled() {
		otelCore := providers.Logs.Core(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Telemetry.LogsLevel))
		if log, err = logger.New(logCfg, otelCore); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = log.Sync()
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Database
	sqlLog := logger.NewSQLLogger(log, logger.SQLLogConfig{
		Level:         cfg.Log.Level,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		HideSQL:       cfg.App.IsProduction() && !cfg.Telemetry.DBLogFullSQL,
	})
	db, err := persistence.Open(&cfg.Database, persistence.WithLogger(sqlLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbSystem := "postgresql"
	if db.IsSQLite() {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}

	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Session cart store and token blacklist
	storeFactory := session.NewCartStoreFactory(cfg.Session, cfg.Redis,
		session.WithLogger(log),
		session.WithInMemoryFallback(!cfg.App.IsProduction()),
	)
	cartStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create cart store", zap.Error(err))
	}
	defer func() {
		if err := cartStore.Close(); err != nil {
			log.Error("Error closing cart store", zap.Error(err))
		}
	}()

	healthChecks := map[string]handler.HealthChecker{
		"database": handler.HealthCheckFunc(db.PingContext),
	}

	var blacklist auth.TokenBlacklist
	if cfg.Session.Backend == session.BackendMemory {
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else if redisClient, err := session.NewRedisClient(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, revoked tokens are tracked in memory", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		healthChecks["redis"] = handler.HealthCheckFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// Outbound mail and product image storage
	mailer, err := mail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	var imageStorage catalogapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		bucket, err := storage.NewImageBucket(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := bucket.EnsureBucket(ctx); err != nil {
			log.Warn("Product image bucket check failed", zap.Error(err))
		}
		imageStorage = bucket
	} else {
		log.Info("Object storage not configured, product image uploads disabled")
	}

	// Metrics
	storeMetrics, err := telemetry.NewStoreMetrics(telemetry.StoreMetricsConfig{
		Meter:         providers.Metrics.Meter("storefront"),
		Logger:        log,
		StockProvider: telemetry.NewGormStockStatusProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create store metrics", zap.Error(err))
	}
	storeMetrics.StartPeriodicCollection(ctx, stockMetricsInterval)
	defer storeMetrics.Stop()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	sizeRepo := persistence.NewGormSizeRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	pricing := cart.Pricing{
		ShippingThreshold: cfg.Store.ShippingThreshold,
		ShippingCost:      cfg.Store.ShippingCost,
		GiftWrapCost:      cfg.Store.GiftWrapCost,
	}
	imageBaseURL := cfg.Storage.PublicBaseURL

	productService := catalogapp.NewProductService(productRepo, categoryRepo, sizeRepo, imageStorage, catalogapp.ProductServiceConfig{
		RelatedCount:    cfg.Store.RelatedCount,
		ImageBaseURL:    imageBaseURL,
		UploadURLExpiry: cfg.Storage.UploadURLExpiry,
		Logger:          log,
	})
	categoryService := catalogapp.NewCategoryService(categoryRepo, sizeRepo)
	couponService := promotionapp.NewCouponService(couponRepo)

	cartConfig := cartapp.DefaultConfig()
	cartConfig.Pricing = pricing
	cartConfig.ImageBaseURL = imageBaseURL
	if cfg.Store.SuggestedCount > 0 {
		cartConfig.SuggestedCount = cfg.Store.SuggestedCount
	}
	if cfg.Store.RecentlyViewedLimit > 0 {
		cartConfig.RecentlyViewedLimit = cfg.Store.RecentlyViewedLimit
	}
	cartService := cartapp.NewService(cartStore, productRepo, couponService, storeMetrics, cartConfig)

	checkoutService := checkoutapp.NewService(cartStore, productRepo, couponService, txScope, checkoutapp.Config{
		Pricing:      pricing,
		ImageBaseURL: imageBaseURL,
	}, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	engagementService := engagementapp.NewService(contactRepo, subscriberRepo, mailer, cfg.Store.OwnerEmail, log)

	// Event bus: order placed notifications run off the request path
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	orderPlacedHandler := tradeapp.NewOrderPlacedHandler(mailer, storeMetrics, tradeapp.NotificationConfig{
		StoreName:  cfg.Store.Name,
		OwnerEmail: cfg.Store.OwnerEmail,
		SiteURL:    cfg.Store.SiteURL,
	}, log)
	eventBus.Subscribe(orderPlacedHandler)
	eventBus.Subscribe(storeMetrics)
	log.Info("Event handlers registered",
		zap.Strings("order_placed_events", orderPlacedHandler.EventTypes()),
		zap.Strings("stock_metric_events", storeMetrics.EventTypes()),
	)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	checkoutService.SetEventPublisher(eventBus)
	authService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	productService.SetEventPublisher(eventBus)

	// Scheduled jobs
	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(cfg.Scheduler, log)
		if err := jobs.Register(cfg.Scheduler.CouponExpirySchedule, scheduler.NewCouponExpirySweeper(couponService, log)); err != nil {
			log.Fatal("Failed to register coupon expiry job", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started", zap.String("coupon_expiry", cfg.Scheduler.CouponExpirySchedule))
	}

	// HTTP handlers
	handlers := router.Handlers{
		Catalog:      handler.NewCatalogHandler(productService, categoryService, cartService),
		AdminCatalog: handler.NewAdminCatalogHandler(productService, categoryService),
		Cart:         handler.NewCartHandler(cartService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Orders:       handler.NewOrderHandler(orderService),
		Auth:         handler.NewAuthHandler(authService),
		Engagement:   handler.NewEngagementHandler(engagementService),
		Coupons:      handler.NewCouponHandler(couponService),
		System:       handler.NewSystemHandler(cfg.App.Name, telemetry.ServiceVersion, healthChecks),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID, recovery, access log, tracing, security
	// headers, CORS, body limit, rate limit, session, optional customer token
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.AccessLog(log, "/health"))
	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = cfg.Telemetry.Enabled
	engine.Use(middleware.Tracing(tracingConfig)...)
	engine.Use(middleware.HTTPMetrics(providers.Metrics.Meter("storefront.http"), log))
	engine.Use(middleware.Profiling(providers.Profiler.Enabled()))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}
	engine.Use(middleware.Session(middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
		Domain:     cfg.Session.Domain,
	}))
	engine.Use(middleware.OptionalJWT(jwtConfig))

	guards := router.Guards{
		Authenticated: []gin.HandlerFunc{middleware.JWTAuth(jwtConfig)},
		Staff: []gin.HandlerFunc{
			middleware.JWTAuth(jwtConfig),
			middleware.StaffOnly(log),
		},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthAttempts = []gin.HandlerFunc{middleware.RateLimit(authLimiter)}
	}

	router.MountInfrastructure(engine, handlers.System, swaggerChain(cfg.Swagger, jwtConfig, log))

	router.Mount(engine, handlers, guards)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// migrateSchema brings the schema up to date. Postgres runs the embedded SQL
// migrations and sqlite uses AutoMigrate.
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if db.IsSQLite() {
		return db.AutoMigrate()
	}

	// The migrator is not closed: closing its driver closes the shared *sql.DB
	m, err := migration.Open(db.SQL(), migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}

// swaggerChain returns the /swagger handler chain, or nil when the docs are
// disabled
func swaggerChain(cfg config.SwaggerConfig, jwtConfig middleware.JWTMiddlewareConfig, log *zap.Logger) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	docs.SwaggerInfo.BasePath = router.APIPrefix

	allow, err := middleware.ParseAllowList(cfg.AllowedIPs)
	if err != nil {
		log.Fatal("Invalid swagger allow list", zap.Error(err))
	}
	chain := []gin.HandlerFunc{middleware.DocsAllowList(allow, log)}
	if cfg.RequireAuth {
		chain = append(chain,
			middleware.JWTAuth(jwtConfig),
			middleware.StaffOnly(log),
		)
	}
	return append(chain, ginSwagger.WrapHandler(swaggerFiles.Handler))
}
