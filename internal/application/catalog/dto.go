package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ShopQuery filters the storefront product list
type ShopQuery struct {
	Category string `form:"category"`
	Query    string `form:"q"`
	Featured bool   `form:"featured"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SizeOption is the per-size pricing shown on product cards
type SizeOption struct {
	Name          string          `json:"name"`
	DisplayName   string          `json:"display_name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Stock         int             `json:"stock"`
}

// CategoryRef is the short form of a category embedded in products
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID             `json:"id"`
	Name             string                `json:"name"`
	Slug             string                `json:"slug"`
	Image            string                `json:"image"`
	Price            decimal.Decimal       `json:"price"`
	DiscountPercent  int                   `json:"discount_percent"`
	DiscountedPrice  decimal.Decimal       `json:"discounted_price"`
	InitialPrice     decimal.Decimal       `json:"initial_price"`
	Rating           decimal.Decimal       `json:"rating"`
	NumRatings       int                   `json:"num_ratings"`
	Stars            []catalog.StarKind    `json:"stars"`
	StockQuantity    int                   `json:"stock_quantity"`
	StockStatus      string                `json:"stock_status"`
	Description      string                `json:"description"`
	ShortDescription string                `json:"short_description"`
	SpecialFeatures  string                `json:"special_features"`
	IsFeatured       bool                  `json:"is_featured"`
	Categories       []CategoryRef         `json:"categories"`
	SizeData         map[string]SizeOption `json:"size_data"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// ProductDetailResponse is a product with related products
type ProductDetailResponse struct {
	Product ProductResponse   `json:"product"`
	Related []ProductResponse `json:"related"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name             string          `json:"name" binding:"required,min=1,max=200"`
	Price            decimal.Decimal `json:"price" binding:"required"`
	DiscountPercent  int             `json:"discount_percent" binding:"min=0,max=100"`
	StockQuantity    *int            `json:"stock_quantity" binding:"omitempty,min=0"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description" binding:"max=500"`
	SpecialFeatures  string          `json:"special_features" binding:"omitempty,oneof=organic pure_a2 no_preservatives handmade gluten_free farm_fresh"`
	IsFeatured       bool            `json:"is_featured"`
	Rating           decimal.Decimal `json:"rating"`
	NumRatings       int             `json:"num_ratings" binding:"min=0"`
	CategoryIDs      []uuid.UUID     `json:"category_ids"`
	SizeIDs          []uuid.UUID     `json:"size_ids"`
}

// UpdateProductRequest represents a request to update a product. Nil fields
// are left unchanged.
type UpdateProductRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Price            *decimal.Decimal `json:"price"`
	DiscountPercent  *int             `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	StockQuantity    *int             `json:"stock_quantity" binding:"omitempty,min=0"`
	Description      *string          `json:"description"`
	ShortDescription *string          `json:"short_description" binding:"omitempty,max=500"`
	SpecialFeatures  *string          `json:"special_features"`
	IsFeatured       *bool            `json:"is_featured"`
	Rating           *decimal.Decimal `json:"rating"`
	NumRatings       *int             `json:"num_ratings" binding:"omitempty,min=0"`
	CategoryIDs      []uuid.UUID      `json:"category_ids"`
	SizeIDs          []uuid.UUID      `json:"size_ids"`
}

// SizeStockInput is one row of a size stock update
type SizeStockInput struct {
	SizeID   uuid.UUID        `json:"size_id" binding:"required"`
	Quantity *int             `json:"quantity" binding:"omitempty,min=0"`
	Price    *decimal.Decimal `json:"price"`
}

// SetSizeStocksRequest upserts the stock rows of a product
type SetSizeStocksRequest struct {
	Stocks []SizeStockInput `json:"stocks" binding:"required,min=1,dive"`
}

// ImageUploadRequest asks for a presigned product image upload URL
type ImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// ImageUploadResponse carries the presigned upload URL
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// AdminProductResponse is a back-office list row
type AdminProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	StockQuantity   int             `json:"stock_quantity"`
	StockStatus     string          `json:"stock_status"`
	IsFeatured      bool            `json:"is_featured"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AdminProductQuery filters the back-office product list
type AdminProductQuery struct {
	Search      string `form:"search"`
	Category    string `form:"category"`
	StockStatus string `form:"stock_status" binding:"omitempty,oneof=in_stock low_stock out_of_stock"`
	Featured    *bool  `form:"featured"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100,slug"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100,slug"`
	Description string `json:"description"`
}

// SizeResponse represents a size option
type SizeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
}

// CreateSizeRequest represents a request to add a size option
type CreateSizeRequest struct {
	Name string `json:"name" binding:"required"`
}
