package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence. Loaded
// products carry their categories, sizes and size stocks.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds all products with the given IDs; missing IDs are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter. Filters understands
	// "category" (slug), "featured" (bool) and Search (name/description).
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// FindRandom returns up to limit random products not in exclude
	FindRandom(ctx context.Context, limit int, exclude []uuid.UUID) ([]Product, error)

	// Save creates or updates a product with its category links and size stocks
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySlug reports whether a product with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// DecrementStock takes quantity units from the size stock row, or from
	// the product stock when sizeID is nil, only if enough remain. Returns
	// shared.ErrInsufficientStock when the conditional update matched nothing.
	DecrementStock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, quantity int) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// CountProducts returns the number of products per category ID
	CountProducts(ctx context.Context) (map[uuid.UUID]int64, error)
}

// SizeRepository defines the interface for size option persistence
type SizeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductSize, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductSize, error)
	FindByName(ctx context.Context, name SizeName) (*ProductSize, error)
	FindAll(ctx context.Context) ([]ProductSize, error)
	Save(ctx context.Context, size *ProductSize) error
}
