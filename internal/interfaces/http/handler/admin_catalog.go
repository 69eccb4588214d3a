package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ProductAdmin is the staff view of the product service
type ProductAdmin interface {
	AdminList(ctx context.Context, query catalogapp.AdminProductQuery) (shared.Paginated[catalogapp.AdminProductResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetSizeStocks(ctx context.Context, id uuid.UUID, req catalogapp.SetSizeStocksRequest) (*catalogapp.ProductResponse, error)
	RequestImageUpload(ctx context.Context, id uuid.UUID, req catalogapp.ImageUploadRequest) (*catalogapp.ImageUploadResponse, error)
}

// CategoryAdmin manages categories and the shared size options
type CategoryAdmin interface {
	List(ctx context.Context) ([]catalogapp.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
	Create(ctx context.Context, req catalogapp.CreateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateCategoryRequest) (*catalogapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListSizes(ctx context.Context) ([]catalogapp.SizeResponse, error)
	CreateSize(ctx context.Context, req catalogapp.CreateSizeRequest) (*catalogapp.SizeResponse, error)
}

// AdminCatalogHandler serves the staff product, category and size endpoints
type AdminCatalogHandler struct {
	BaseHandler
	products   ProductAdmin
	categories CategoryAdmin
}

// NewAdminCatalogHandler creates a new AdminCatalogHandler
func NewAdminCatalogHandler(products ProductAdmin, categories CategoryAdmin) *AdminCatalogHandler {
	return &AdminCatalogHandler{
		products:   products,
		categories: categories,
	}
}

// ListProducts godoc
// @ID           adminListProducts
// @Summary      List products (admin)
// @Tags         admin-products
// @Produce      json
// @Param        search query string false "Name or description"
// @Param        category query string false "Category slug"
// @Param        stock_status query string false "Stock status" Enums(in_stock, low_stock, out_of_stock)
// @Param        featured query bool false "Featured flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]catalogapp.AdminProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminCatalogHandler) ListProducts(c *gin.Context) {
	var query catalogapp.AdminProductQuery
	if !h.bindQuery(c, &query) {
		return
	}

	result, err := h.products.AdminList(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// GetProduct godoc
// @ID           adminGetProduct
// @Summary      Get product (admin)
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *AdminCatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// CreateProduct godoc
// @ID           adminCreateProduct
// @Summary      Create product
// @Description  Creates a product. Stock defaults to 1 when omitted.
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *AdminCatalogHandler) CreateProduct(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateProduct godoc
// @ID           adminUpdateProduct
// @Summary      Update product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *AdminCatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// DeleteProduct godoc
// @ID           adminDeleteProduct
// @Summary      Delete product
// @Tags         admin-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *AdminCatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetSizeStocks godoc
// @ID           adminSetSizeStocks
// @Summary      Set per-size stock and price
// @Description  Upserts the stock rows of the given sizes. New rows default to a quantity of 5 at the product price.
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.SetSizeStocksRequest true "Size stocks"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/stocks [put]
func (h *AdminCatalogHandler) SetSizeStocks(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetSizeStocksRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.SetSizeStocks(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RequestImageUpload godoc
// @ID           adminRequestImageUpload
// @Summary      Presigned image upload URL
// @Description  Returns a short-lived URL the browser PUTs the image to. The product image is set to the returned storage key.
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ImageUploadRequest true "Image file"
// @Success      200 {object} dto.Response{data=catalogapp.ImageUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id}/image-upload-url [post]
func (h *AdminCatalogHandler) RequestImageUpload(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ImageUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.products.RequestImageUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ListCategories godoc
// @ID           adminListCategories
// @Summary      List categories with product counts
// @Tags         admin-categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse}
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *AdminCatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetCategory godoc
// @ID           adminGetCategory
// @Summary      Get category
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *AdminCatalogHandler) GetCategory(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// CreateCategory godoc
// @ID           adminCreateCategory
// @Summary      Create category
// @Description  The slug is generated from the name when omitted and must be unique.
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// UpdateCategory godoc
// @ID           adminUpdateCategory
// @Summary      Update category
// @Tags         admin-categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Category"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *AdminCatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// DeleteCategory godoc
// @ID           adminDeleteCategory
// @Summary      Delete category
// @Tags         admin-categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *AdminCatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSizes godoc
// @ID           adminListSizes
// @Summary      List size options
// @Tags         admin-sizes
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.SizeResponse}
// @Security     BearerAuth
// @Router       /admin/sizes [get]
func (h *AdminCatalogHandler) ListSizes(c *gin.Context) {
	sizes, err := h.categories.ListSizes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sizes)
}

// CreateSize godoc
// @ID           adminCreateSize
// @Summary      Create size option
// @Description  Name must be one of XS, S, M, L, XL, XXL, 100g, 250g, 500g, 900g, 1kg or 5kg.
// @Tags         admin-sizes
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateSizeRequest true "Size"
// @Success      201 {object} dto.Response{data=catalogapp.SizeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/sizes [post]
func (h *AdminCatalogHandler) CreateSize(c *gin.Context) {
	var req catalogapp.CreateSizeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	size, err := h.categories.CreateSize(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, size)
}
