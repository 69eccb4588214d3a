package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCatalogRouter(products *MockProductService, categories *MockCategoryService, cart *MockCartService) http.Handler {
	h := NewCatalogHandler(products, categories, cart)
	r := newTestRouter()
	r.GET("/catalog/products", h.Shop)
	r.GET("/catalog/products/featured", h.Featured)
	r.GET("/catalog/products/:id", h.Detail)
	r.GET("/catalog/search", h.Search)
	r.GET("/catalog/categories", h.Categories)
	r.GET("/catalog/sizes", h.Sizes)
	return r
}

func sampleProduct(name string) catalogapp.ProductResponse {
	return catalogapp.ProductResponse{
		ID:              uuid.New(),
		Name:            name,
		Slug:            "slug-" + name,
		Price:           decimal.NewFromInt(500),
		DiscountPercent: 10,
		DiscountedPrice: decimal.NewFromInt(450),
		StockStatus:     "in_stock",
	}
}

func TestCatalogHandler_Shop(t *testing.T) {
	products := new(MockProductService)
	r := setupCatalogRouter(products, new(MockCategoryService), new(MockCartService))

	expectedQuery := catalogapp.ShopQuery{Category: "ghee", Query: "a2", Page: 2, PageSize: 10}
	page := shared.NewPaginated([]catalogapp.ProductResponse{sampleProduct("ghee")}, 11, 2, 10)
	products.On("Shop", mock.Anything, expectedQuery).Return(page, nil)

	w := performRequest(r, http.MethodGet, "/catalog/products?category=ghee&q=a2&page=2&page_size=10", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.([]any), 1)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(11), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	products.AssertExpectations(t)
}

func TestCatalogHandler_Shop_InvalidPageSize(t *testing.T) {
	products := new(MockProductService)
	r := setupCatalogRouter(products, new(MockCategoryService), new(MockCartService))

	w := performRequest(r, http.MethodGet, "/catalog/products?page_size=500", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	products.AssertNotCalled(t, "Shop", mock.Anything, mock.Anything)
}

func TestCatalogHandler_Featured(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		products := new(MockProductService)
		r := setupCatalogRouter(products, new(MockCategoryService), new(MockCartService))
		products.On("Featured", mock.Anything, defaultFeaturedLimit).
			Return([]catalogapp.ProductResponse{sampleProduct("a")}, nil)

		w := performRequest(r, http.MethodGet, "/catalog/products/featured", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		products.AssertExpectations(t)
	})

	t.Run("explicit limit", func(t *testing.T) {
		products := new(MockProductService)
		r := setupCatalogRouter(products, new(MockCategoryService), new(MockCartService))
		products.On("Featured", mock.Anything, 3).Return([]catalogapp.ProductResponse{}, nil)

		w := performRequest(r, http.MethodGet, "/catalog/products/featured?limit=3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		products.AssertExpectations(t)
	})

	t.Run("bad limit", func(t *testing.T) {
		r := setupCatalogRouter(new(MockProductService), new(MockCategoryService), new(MockCartService))
		w := performRequest(r, http.MethodGet, "/catalog/products/featured?limit=zero", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_Detail(t *testing.T) {
	t.Run("tracks the product as recently viewed", func(t *testing.T) {
		products := new(MockProductService)
		cart := new(MockCartService)
		r := setupCatalogRouter(products, new(MockCategoryService), cart)

		product := sampleProduct("ghee")
		products.On("Detail", mock.Anything, product.ID).
			Return(&catalogapp.ProductDetailResponse{Product: product}, nil)
		cart.On("TrackViewed", mock.Anything, testSessionID, product.ID).Return(nil)

		w := performRequest(r, http.MethodGet, "/catalog/products/"+product.ID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "ghee", data["product"].(map[string]any)["name"])
		cart.AssertExpectations(t)
	})

	t.Run("tracking failure still returns the product", func(t *testing.T) {
		products := new(MockProductService)
		cart := new(MockCartService)
		r := setupCatalogRouter(products, new(MockCategoryService), cart)

		product := sampleProduct("honey")
		products.On("Detail", mock.Anything, product.ID).
			Return(&catalogapp.ProductDetailResponse{Product: product}, nil)
		cart.On("TrackViewed", mock.Anything, testSessionID, product.ID).Return(errors.New("redis down"))

		w := performRequest(r, http.MethodGet, "/catalog/products/"+product.ID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found is not tracked", func(t *testing.T) {
		products := new(MockProductService)
		cart := new(MockCartService)
		r := setupCatalogRouter(products, new(MockCategoryService), cart)

		id := uuid.New()
		products.On("Detail", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w := performRequest(r, http.MethodGet, "/catalog/products/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		cart.AssertNotCalled(t, "TrackViewed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid id", func(t *testing.T) {
		r := setupCatalogRouter(new(MockProductService), new(MockCategoryService), new(MockCartService))
		w := performRequest(r, http.MethodGet, "/catalog/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCatalogHandler_Search(t *testing.T) {
	products := new(MockProductService)
	r := setupCatalogRouter(products, new(MockCategoryService), new(MockCartService))
	products.On("Search", mock.Anything, "ghee").Return([]catalogapp.ProductResponse{sampleProduct("ghee")}, nil)

	w := performRequest(r, http.MethodGet, "/catalog/search?q=ghee", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data.([]any), 1)
}

func TestCatalogHandler_CategoriesAndSizes(t *testing.T) {
	categories := new(MockCategoryService)
	r := setupCatalogRouter(new(MockProductService), categories, new(MockCartService))
	categories.On("List", mock.Anything).Return([]catalogapp.CategoryResponse{
		{ID: uuid.New(), Name: "Ghee", Slug: "ghee"},
	}, nil)
	categories.On("ListSizes", mock.Anything).Return([]catalogapp.SizeResponse{
		{ID: uuid.New(), Name: "500g", DisplayName: "500g"},
	}, nil)

	w := performRequest(r, http.MethodGet, "/catalog/categories", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data.([]any), 1)

	w = performRequest(r, http.MethodGet, "/catalog/sizes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse(t, w).Data.([]any), 1)
}
