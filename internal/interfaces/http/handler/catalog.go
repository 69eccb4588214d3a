package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// defaultFeaturedLimit is the number of featured products on the homepage
const defaultFeaturedLimit = 8

// ProductReader is the storefront view of the product service
type ProductReader interface {
	Shop(ctx context.Context, query catalogapp.ShopQuery) (shared.Paginated[catalogapp.ProductResponse], error)
	Featured(ctx context.Context, limit int) ([]catalogapp.ProductResponse, error)
	Search(ctx context.Context, query string) ([]catalogapp.ProductResponse, error)
	Detail(ctx context.Context, id uuid.UUID) (*catalogapp.ProductDetailResponse, error)
}

// CategoryReader lists categories and sizes
type CategoryReader interface {
	List(ctx context.Context) ([]catalogapp.CategoryResponse, error)
	ListSizes(ctx context.Context) ([]catalogapp.SizeResponse, error)
}

// ViewTracker records products in the session's recently-viewed list
type ViewTracker interface {
	TrackViewed(ctx context.Context, sessionID string, productID uuid.UUID) error
}

// CatalogHandler serves the public catalog endpoints
type CatalogHandler struct {
	BaseHandler
	products   ProductReader
	categories CategoryReader
	views      ViewTracker
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products ProductReader, categories CategoryReader, views ViewTracker) *CatalogHandler {
	return &CatalogHandler{
		products:   products,
		categories: categories,
		views:      views,
	}
}

// Shop godoc
// @ID           listShopProducts
// @Summary      List products
// @Description  Paginated storefront listing, newest first. Filters by category slug, search text and featured flag.
// @Tags         catalog
// @Produce      json
// @Param        category query string false "Category slug"
// @Param        q query string false "Search text"
// @Param        featured query bool false "Featured only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products [get]
func (h *CatalogHandler) Shop(c *gin.Context) {
	var query catalogapp.ShopQuery
	if !h.bindQuery(c, &query) {
		return
	}

	result, err := h.products.Shop(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// Featured godoc
// @ID           listFeaturedProducts
// @Summary      Featured products
// @Description  Featured products for the homepage
// @Tags         catalog
// @Produce      json
// @Param        limit query int false "Maximum number of products" default(8)
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /catalog/products/featured [get]
func (h *CatalogHandler) Featured(c *gin.Context) {
	limit := defaultFeaturedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			h.BadRequest(c, "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	products, err := h.products.Featured(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Detail godoc
// @ID           getProductDetail
// @Summary      Product detail
// @Description  Returns the product with its size data and up to four related products. Records the product as recently viewed for the session.
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductDetailResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [get]
func (h *CatalogHandler) Detail(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.products.Detail(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// A failed history write must not hide the product
	if sessionID := middleware.GetSessionID(c); sessionID != "" && h.views != nil {
		if err := h.views.TrackViewed(c.Request.Context(), sessionID, id); err != nil {
			logger.L(c.Request.Context()).Warn("Failed to record recently viewed product",
				zap.String("product_id", id.String()),
				zap.Error(err),
			)
		}
	}

	h.Success(c, detail)
}

// Search godoc
// @ID           searchProducts
// @Summary      Search products
// @Description  Case-insensitive match on name or description. An empty query returns no products.
// @Tags         catalog
// @Produce      json
// @Param        q query string false "Search text"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /catalog/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	products, err := h.products.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Categories godoc
// @ID           listCategories
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Router       /catalog/categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Sizes godoc
// @ID           listSizes
// @Summary      List sizes
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.SizeResponse}
// @Router       /catalog/sizes [get]
func (h *CatalogHandler) Sizes(c *gin.Context) {
	sizes, err := h.categories.ListSizes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sizes)
}
