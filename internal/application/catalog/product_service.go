package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AllowedImageTypes is the whitelist of product image content types.
// SVG is excluded because it can carry scripts.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStorageService defines the object storage operations product
// images need. Implemented by the S3 adapter.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	// RelatedCount is how many related products the detail view returns
	RelatedCount int
	// ImageBaseURL is prefixed to stored image keys in responses
	ImageBaseURL string
	// UploadURLExpiry is how long presigned image upload URLs stay valid
	UploadURLExpiry time.Duration
	// Logger reports catalog events that could not be published
	Logger *zap.Logger
}

// DefaultProductServiceConfig returns the default configuration
func DefaultProductServiceConfig() ProductServiceConfig {
	return ProductServiceConfig{
		RelatedCount:    4,
		UploadURLExpiry: 15 * time.Minute,
	}
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	sizeRepo     catalog.SizeRepository
	storage      ObjectStorageService
	config       ProductServiceConfig
	logger       *zap.Logger
	publisher    shared.EventPublisher
}

// NewProductService creates a new ProductService. storage may be nil when
// image uploads are not configured.
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	sizeRepo catalog.SizeRepository,
	storage ObjectStorageService,
	config ProductServiceConfig,
) *ProductService {
	if config.RelatedCount <= 0 {
		config.RelatedCount = 4
	}
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = 15 * time.Minute
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		logger:       log,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		sizeRepo:     sizeRepo,
		storage:      storage,
		config:       config,
	}
}

// SetEventPublisher sets the publisher for catalog change events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Shop lists storefront products, newest first
func (s *ProductService) Shop(ctx context.Context, query ShopQuery) (shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = strings.TrimSpace(query.Query)
	if query.Category != "" {
		filter.Filters["category"] = query.Category
	}
	if query.Featured {
		filter.Filters["featured"] = true
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}

	return shared.NewPaginated(ToProductResponses(products, s.config.ImageBaseURL), total, filter.Page, filter.PageSize), nil
}

// Featured returns up to limit featured products for the homepage
func (s *ProductService) Featured(ctx context.Context, limit int) ([]ProductResponse, error) {
	filter := shared.DefaultFilter()
	if limit > 0 {
		filter.PageSize = limit
	}
	filter.Filters["featured"] = true

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products, s.config.ImageBaseURL), nil
}

// Search matches name or description case-insensitively. An empty query
// returns no products.
func (s *ProductService) Search(ctx context.Context, query string) ([]ProductResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []ProductResponse{}, nil
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 100
	filter.Search = query

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products, s.config.ImageBaseURL), nil
}

// Detail returns a product with random related products
func (s *ProductService) Detail(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.FindRandom(ctx, s.config.RelatedCount, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	return &ProductDetailResponse{
		Product: ToProductResponse(product, s.config.ImageBaseURL),
		Related: ToProductResponses(related, s.config.ImageBaseURL),
	}, nil
}

// GetByIDs returns products in the order of ids, skipping missing ones
func (s *ProductService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductResponse, error) {
	if len(ids) == 0 {
		return []ProductResponse{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	out := make([]ProductResponse, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, ToProductResponse(p, s.config.ImageBaseURL))
		}
	}
	return out, nil
}

// AdminList lists products for the back-office with discounted prices
func (s *ProductService) AdminList(ctx context.Context, query AdminProductQuery) (shared.Paginated[AdminProductResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	filter.Search = strings.TrimSpace(query.Search)
	if query.Category != "" {
		filter.Filters["category"] = query.Category
	}
	if query.StockStatus != "" {
		filter.Filters["stock_status"] = query.StockStatus
	}
	if query.Featured != nil {
		filter.Filters["featured"] = *query.Featured
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AdminProductResponse]{}, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[AdminProductResponse]{}, err
	}

	rows := make([]AdminProductResponse, len(products))
	for i := range products {
		rows[i] = ToAdminProductResponse(&products[i])
	}
	return shared.NewPaginated(rows, total, filter.Page, filter.PageSize), nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, s.config.ImageBaseURL)
	return &resp, nil
}

// Create creates a new product with a unique slug
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Price)
	if err != nil {
		return nil, err
	}

	slug, err := catalog.UniqueSlug(product.Slug, func(candidate string) (bool, error) {
		return s.productRepo.ExistsBySlug(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if err := product.SetPricing(req.Price, req.DiscountPercent); err != nil {
		return nil, err
	}
	if req.StockQuantity != nil {
		if err := product.SetStockQuantity(*req.StockQuantity); err != nil {
			return nil, err
		}
	}
	if err := product.Update(req.Name, req.Description, req.ShortDescription, catalog.SpecialFeature(req.SpecialFeatures), req.IsFeatured); err != nil {
		return nil, err
	}
	if err := product.SetRating(req.Rating, req.NumRatings); err != nil {
		return nil, err
	}
	if err := s.assignRelations(ctx, product, req.CategoryIDs, req.SizeIDs); err != nil {
		return nil, err
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, s.config.ImageBaseURL)
	return &resp, nil
}

// Update applies the non-nil fields of req to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := product.Description
	if req.Description != nil {
		description = *req.Description
	}
	short := product.ShortDescription
	if req.ShortDescription != nil {
		short = *req.ShortDescription
	}
	feature := product.SpecialFeatures
	if req.SpecialFeatures != nil {
		feature = catalog.SpecialFeature(*req.SpecialFeatures)
	}
	featured := product.IsFeatured
	if req.IsFeatured != nil {
		featured = *req.IsFeatured
	}
	if err := product.Update(name, description, short, feature, featured); err != nil {
		return nil, err
	}

	if req.Price != nil || req.DiscountPercent != nil {
		price := product.Price
		if req.Price != nil {
			price = *req.Price
		}
		discount := product.DiscountPercent
		if req.DiscountPercent != nil {
			discount = *req.DiscountPercent
		}
		if err := product.SetPricing(price, discount); err != nil {
			return nil, err
		}
	}
	if req.StockQuantity != nil {
		if err := product.SetStockQuantity(*req.StockQuantity); err != nil {
			return nil, err
		}
	}
	if req.Rating != nil || req.NumRatings != nil {
		rating := product.Rating
		if req.Rating != nil {
			rating = *req.Rating
		}
		count := product.NumRatings
		if req.NumRatings != nil {
			count = *req.NumRatings
		}
		if err := product.SetRating(rating, count); err != nil {
			return nil, err
		}
	}
	if req.CategoryIDs != nil || req.SizeIDs != nil {
		if err := s.assignRelations(ctx, product, req.CategoryIDs, req.SizeIDs); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, s.config.ImageBaseURL)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	product.MarkRemoved()
	s.publish(ctx, product)
	if product.Image != "" && s.storage != nil && !strings.HasPrefix(product.Image, "http") {
		// best effort; the row is already gone
		_ = s.storage.DeleteObject(ctx, product.Image)
	}
	return nil
}

// SetSizeStocks upserts the per-size stock rows of a product. Quantity
// defaults to 5 and price to the product price for new rows.
func (s *ProductService) SetSizeStocks(ctx context.Context, id uuid.UUID, req SetSizeStocksRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, input := range req.Stocks {
		size, err := s.sizeRepo.FindByID(ctx, input.SizeID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_SIZE", "Size not found")
			}
			return nil, err
		}

		quantity := catalog.DefaultSizeStockQuantity
		price := product.Price
		if existing, ok := product.StockFor(size.ID); ok {
			quantity = existing.Quantity
			price = existing.Price
		}
		if input.Quantity != nil {
			quantity = *input.Quantity
		}
		if input.Price != nil {
			price = *input.Price
		}

		if _, err := product.UpsertSizeStock(*size, quantity, price); err != nil {
			return nil, err
		}
	}
	product.MarkStockChanged()

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, s.config.ImageBaseURL)
	return &resp, nil
}

// RequestImageUpload returns a presigned upload URL and points the product
// image at the new storage key.
func (s *ProductService) RequestImageUpload(ctx context.Context, id uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Image uploads are not configured")
	}
	if !AllowedImageTypes[req.ContentType] {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only JPEG, PNG, GIF and WebP images are allowed")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	storageKey := "products/" + product.ID.String() + "/" + uuid.New().String() + ext

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	product.SetImage(storageKey)
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *ProductService) assignRelations(ctx context.Context, product *catalog.Product, categoryIDs, sizeIDs []uuid.UUID) error {
	if categoryIDs != nil {
		categories, err := s.categoryRepo.FindByIDs(ctx, categoryIDs)
		if err != nil {
			return err
		}
		if len(categories) != len(uniqueIDs(categoryIDs)) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		product.SetCategories(categories)
	}
	if sizeIDs != nil {
		sizes, err := s.sizeRepo.FindByIDs(ctx, sizeIDs)
		if err != nil {
			return err
		}
		if len(sizes) != len(uniqueIDs(sizeIDs)) {
			return shared.NewDomainError("INVALID_SIZE", "Size not found")
		}
		product.SetSizes(sizes)
	}
	return nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, product)
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishPending(ctx, s.publisher, product); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
