package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func storefrontEngine(t *testing.T, g Guards) *gin.Engine {
	t.Helper()
	engine := gin.New()
	h := Handlers{
		Catalog:      handler.NewCatalogHandler(nil, nil, nil),
		AdminCatalog: handler.NewAdminCatalogHandler(nil, nil),
		Cart:         handler.NewCartHandler(nil),
		Checkout:     handler.NewCheckoutHandler(nil),
		Orders:       handler.NewOrderHandler(nil),
		Auth:         handler.NewAuthHandler(nil),
		Engagement:   handler.NewEngagementHandler(nil),
		Coupons:      handler.NewCouponHandler(nil),
		System:       handler.NewSystemHandler("storefront", "test", nil),
	}
	api := Mount(engine, h, g)
	require.Equal(t, APIPrefix, api.BasePath())
	MountInfrastructure(engine, h.System, nil)
	return engine
}

func TestStorefrontRoutes_Registered(t *testing.T) {
	engine := storefrontEngine(t, Guards{})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/catalog/products",
		"GET /api/v1/catalog/products/featured",
		"GET /api/v1/catalog/products/:id",
		"GET /api/v1/catalog/search",
		"GET /api/v1/catalog/categories",
		"GET /api/v1/catalog/sizes",
		"GET /api/v1/cart",
		"GET /api/v1/cart/count",
		"POST /api/v1/cart/items",
		"PUT /api/v1/cart/items",
		"PATCH /api/v1/cart/items",
		"DELETE /api/v1/cart/items",
		"POST /api/v1/cart/gift-wrap",
		"POST /api/v1/cart/save-for-later",
		"POST /api/v1/cart/move-to-cart",
		"POST /api/v1/cart/coupon",
		"DELETE /api/v1/cart/coupon",
		"POST /api/v1/checkout",
		"GET /api/v1/checkout/:session_id",
		"PUT /api/v1/checkout/:session_id/address",
		"POST /api/v1/checkout/:session_id/place-order",
		"GET /api/v1/orders/:order_id",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"GET /api/v1/account/orders",
		"POST /api/v1/contact",
		"POST /api/v1/newsletter",
		"GET /api/v1/pages/:slug",
		"GET /api/v1/system/info",
		"GET /api/v1/admin/categories",
		"POST /api/v1/admin/categories",
		"GET /api/v1/admin/categories/:id",
		"PUT /api/v1/admin/categories/:id",
		"DELETE /api/v1/admin/categories/:id",
		"GET /api/v1/admin/products",
		"POST /api/v1/admin/products",
		"GET /api/v1/admin/products/:id",
		"PUT /api/v1/admin/products/:id",
		"DELETE /api/v1/admin/products/:id",
		"PUT /api/v1/admin/products/:id/stocks",
		"POST /api/v1/admin/products/:id/image-upload-url",
		"GET /api/v1/admin/sizes",
		"POST /api/v1/admin/sizes",
		"GET /api/v1/admin/coupons",
		"POST /api/v1/admin/coupons",
		"GET /api/v1/admin/coupons/:id",
		"PUT /api/v1/admin/coupons/:id",
		"DELETE /api/v1/admin/coupons/:id",
		"GET /api/v1/admin/orders",
		"GET /api/v1/admin/orders/export",
		"POST /api/v1/admin/orders/bulk-status",
		"POST /api/v1/admin/orders/:id/status",
		"POST /api/v1/admin/orders/:id/mark-paid",
		"GET /health",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.False(t, registered["GET /swagger/*any"])
}

func TestStorefrontRoutes_Guards(t *testing.T) {
	deny := func(status int) []gin.HandlerFunc {
		return []gin.HandlerFunc{func(c *gin.Context) { c.AbortWithStatus(status) }}
	}
	engine := storefrontEngine(t, Guards{
		Authenticated: deny(http.StatusUnauthorized),
		Staff:         deny(http.StatusForbidden),
		AuthAttempts:  deny(http.StatusTooManyRequests),
	})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodPost, "/api/v1/auth/logout", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/account/orders", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/admin/orders", http.StatusForbidden},
		{http.MethodGet, "/api/v1/admin/orders/export", http.StatusForbidden},
		{http.MethodDelete, "/api/v1/admin/coupons/x", http.StatusForbidden},
		{http.MethodPost, "/api/v1/admin/products", http.StatusForbidden},
		{http.MethodPost, "/api/v1/auth/login", http.StatusTooManyRequests},
		{http.MethodPost, "/api/v1/auth/register", http.StatusTooManyRequests},
		{http.MethodGet, "/health", http.StatusOK},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestMountInfrastructure(t *testing.T) {
	engine := gin.New()
	system := handler.NewSystemHandler("storefront", "test", nil)
	docs := []gin.HandlerFunc{func(c *gin.Context) { c.String(http.StatusOK, "docs") }}

	MountInfrastructure(engine, system, docs)

	w := serve(engine, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = serve(engine, http.MethodGet, "/swagger/index.html")
	assert.Equal(t, "docs", w.Body.String())
}
