package integration

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	identityapp "github.com/storefront/backend/internal/application/identity"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/require"
)

// TestServer is the storefront API wired to a real database, an in-memory
// cart store and a synchronous event bus
type TestServer struct {
	DB     *TestDB
	Seed   *catalogSeed
	Engine *gin.Engine
	Events *testutil.EventRecorder
}

// NewTestServer builds the API over the shared database
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	tdb := setupDB(t)
	seed := newCatalogSeed(tdb)

	categoryRepo := persistence.NewGormCategoryRepository(tdb.DB)
	orderRepo := persistence.NewGormOrderRepository(tdb.DB)
	userRepo := persistence.NewGormUserRepository(tdb.DB)
	cartStore := session.NewMemoryCartStore(time.Hour)

	couponService := promotionapp.NewCouponService(seed.coupons)
	productService := catalogapp.NewProductService(seed.products, categoryRepo, seed.sizes, nil, catalogapp.DefaultProductServiceConfig())
	categoryService := catalogapp.NewCategoryService(categoryRepo, seed.sizes)
	cartService := cartapp.NewService(cartStore, seed.products, couponService, nil, cartapp.DefaultConfig())
	checkoutService := checkoutapp.NewService(cartStore, seed.products, couponService,
		persistence.NewGormTransactionScope(tdb.DB),
		checkoutapp.Config{Pricing: cart.DefaultPricing()}, nil)
	orderService := tradeapp.NewOrderService(orderRepo, nil)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-access-secret-0123456789abcdef",
		RefreshSecret:          "integration-refresh-secret-0123456789abcdef",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, nil)

	events := testutil.RecordEvents(trade.EventTypeOrderPlaced)
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(events)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	checkoutService.SetEventPublisher(bus)

	jwtCfg := middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist}
	engine := gin.New()
	engine.Use(
		middleware.Session(middleware.SessionConfig{TTL: time.Hour}),
		middleware.OptionalJWT(jwtCfg),
	)

	handlers := router.Handlers{
		Catalog:      handler.NewCatalogHandler(productService, categoryService, cartService),
		AdminCatalog: handler.NewAdminCatalogHandler(productService, categoryService),
		Cart:         handler.NewCartHandler(cartService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Orders:       handler.NewOrderHandler(orderService),
		Auth:         handler.NewAuthHandler(authService),
		Engagement:   handler.NewEngagementHandler(nil),
		Coupons:      handler.NewCouponHandler(couponService),
		System:       handler.NewSystemHandler("storefront", "test", nil),
	}
	guards := router.Guards{
		Authenticated: []gin.HandlerFunc{middleware.JWTAuth(jwtCfg)},
		Staff: []gin.HandlerFunc{
			middleware.JWTAuth(jwtCfg),
			middleware.StaffOnly(nil),
		},
	}
	router.Mount(engine, handlers, guards)
	router.MountInfrastructure(engine, handlers.System, nil)

	return &TestServer{
		DB:     tdb,
		Seed:   seed,
		Engine: engine,
		Events: events,
	}
}

// Client returns an API client for a new shopper session
func (s *TestServer) Client(t *testing.T, seed string) *testutil.APIClient {
	return testutil.NewAPIClient(t, s.Engine, seed)
}
