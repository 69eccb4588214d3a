// Package router lays the storefront API out on a gin engine. Every area of
// the store gets its own route group under APIPrefix; health and docs stay
// unversioned.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// APIPrefix is the mount point of the versioned API
const APIPrefix = "/api/v1"

// Handlers are the HTTP handlers mounted by Mount
type Handlers struct {
	Catalog      *handler.CatalogHandler
	AdminCatalog *handler.AdminCatalogHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Orders       *handler.OrderHandler
	Auth         *handler.AuthHandler
	Engagement   *handler.EngagementHandler
	Coupons      *handler.CouponHandler
	System       *handler.SystemHandler
}

// Guards are the per-area middleware chains.
// Authenticated runs on customer account routes, Staff on /admin and
// AuthAttempts on login and register. Empty chains leave routes open.
type Guards struct {
	Authenticated []gin.HandlerFunc
	Staff         []gin.HandlerFunc
	AuthAttempts  []gin.HandlerFunc
}

// Mount registers the versioned API and returns its group
func Mount(engine *gin.Engine, h Handlers, g Guards) *gin.RouterGroup {
	api := engine.Group(APIPrefix)

	catalogRoutes(api.Group("/catalog"), h)
	cartRoutes(api.Group("/cart"), h)
	checkoutRoutes(api.Group("/checkout"), h)
	api.GET("/orders/:order_id", h.Orders.GetConfirmation)
	authRoutes(api.Group("/auth"), h, g)
	api.Group("/account", g.Authenticated...).GET("/orders", h.Orders.ListMine)

	api.POST("/contact", h.Engagement.Contact)
	api.POST("/newsletter", h.Engagement.Subscribe)
	api.GET("/pages/:slug", h.Engagement.Page)
	api.GET("/system/info", h.System.GetSystemInfo)

	adminRoutes(api.Group("/admin", g.Staff...), h)
	return api
}

// MountInfrastructure registers the unversioned routes: the health check and,
// when a docs chain is given, the Swagger UI
func MountInfrastructure(engine *gin.Engine, system *handler.SystemHandler, docs []gin.HandlerFunc) {
	engine.GET("/health", system.Health)
	if len(docs) > 0 {
		engine.GET("/swagger/*any", docs...)
	}
}

func catalogRoutes(rg *gin.RouterGroup, h Handlers) {
	rg.GET("/products", h.Catalog.Shop)
	rg.GET("/products/featured", h.Catalog.Featured)
	rg.GET("/products/:id", h.Catalog.Detail)
	rg.GET("/search", h.Catalog.Search)
	rg.GET("/categories", h.Catalog.Categories)
	rg.GET("/sizes", h.Catalog.Sizes)
}

func cartRoutes(rg *gin.RouterGroup, h Handlers) {
	rg.GET("", h.Cart.View)
	rg.GET("/count", h.Cart.Count)

	items := rg.Group("/items")
	items.POST("", h.Cart.Add)
	items.PUT("", h.Cart.UpdateQuantity)
	items.PATCH("", h.Cart.BulkUpdate)
	items.DELETE("", h.Cart.Remove)

	rg.POST("/gift-wrap", h.Cart.SetGiftWrap)
	rg.POST("/save-for-later", h.Cart.SaveForLater)
	rg.POST("/move-to-cart", h.Cart.MoveToCart)
	rg.POST("/coupon", h.Cart.ApplyCoupon)
	rg.DELETE("/coupon", h.Cart.RemoveCoupon)
}

func checkoutRoutes(rg *gin.RouterGroup, h Handlers) {
	rg.POST("", h.Checkout.Begin)
	session := rg.Group("/:session_id")
	session.GET("", h.Checkout.Review)
	session.PUT("/address", h.Checkout.SaveAddress)
	session.POST("/place-order", h.Checkout.PlaceOrder)
}

func authRoutes(rg *gin.RouterGroup, h Handlers, g Guards) {
	rg.POST("/register", guarded(g.AuthAttempts, h.Auth.Register)...)
	rg.POST("/login", guarded(g.AuthAttempts, h.Auth.Login)...)
	rg.POST("/refresh", h.Auth.Refresh)

	session := rg.Group("", g.Authenticated...)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
}

func adminRoutes(admin *gin.RouterGroup, h Handlers) {
	categories := admin.Group("/categories")
	categories.GET("", h.AdminCatalog.ListCategories)
	categories.POST("", h.AdminCatalog.CreateCategory)
	categories.GET("/:id", h.AdminCatalog.GetCategory)
	categories.PUT("/:id", h.AdminCatalog.UpdateCategory)
	categories.DELETE("/:id", h.AdminCatalog.DeleteCategory)

	products := admin.Group("/products")
	products.GET("", h.AdminCatalog.ListProducts)
	products.POST("", h.AdminCatalog.CreateProduct)
	products.GET("/:id", h.AdminCatalog.GetProduct)
	products.PUT("/:id", h.AdminCatalog.UpdateProduct)
	products.DELETE("/:id", h.AdminCatalog.DeleteProduct)
	products.PUT("/:id/stocks", h.AdminCatalog.SetSizeStocks)
	products.POST("/:id/image-upload-url", h.AdminCatalog.RequestImageUpload)

	sizes := admin.Group("/sizes")
	sizes.GET("", h.AdminCatalog.ListSizes)
	sizes.POST("", h.AdminCatalog.CreateSize)

	coupons := admin.Group("/coupons")
	coupons.GET("", h.Coupons.List)
	coupons.POST("", h.Coupons.Create)
	coupons.GET("/:id", h.Coupons.Get)
	coupons.PUT("/:id", h.Coupons.Update)
	coupons.DELETE("/:id", h.Coupons.Delete)

	orders := admin.Group("/orders")
	orders.GET("", h.Orders.List)
	orders.GET("/export", h.Orders.Export)
	orders.POST("/bulk-status", h.Orders.BulkUpdateStatus)
	orders.POST("/:id/status", h.Orders.UpdateStatus)
	orders.POST("/:id/mark-paid", h.Orders.MarkPaid)
}

func guarded(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	return append(append(make([]gin.HandlerFunc, 0, len(guards)+1), guards...), h)
}
