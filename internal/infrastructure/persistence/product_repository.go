package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockStatusCase derives stock_status from a quantity expression in SQL,
// mirroring catalog.StockStatusFor.
const stockStatusCase = "CASE WHEN stock_quantity - ? <= 0 THEN 'out_of_stock' " +
	"WHEN stock_quantity - ? <= 5 THEN 'low_stock' ELSE 'in_stock' END"

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// withAssociations preloads categories, size options and size stocks
func withAssociations(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Sizes").
		Preload("Stocks.Size")
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withAssociations(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds all products with the given IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := withAssociations(r.db.WithContext(ctx)).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var productModels []models.ProductModel
	query := r.applyFilter(withAssociations(r.db.WithContext(ctx)).Model(&models.ProductModel{}), filter)

	if err := query.Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindRandom returns up to limit random products not in exclude
func (r *GormProductRepository) FindRandom(ctx context.Context, limit int, exclude []uuid.UUID) ([]catalog.Product, error) {
	if limit <= 0 {
		return []catalog.Product{}, nil
	}
	query := withAssociations(r.db.WithContext(ctx))
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var productModels []models.ProductModel
	if err := query.Order("RANDOM()").Limit(limit).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return toDomainProducts(productModels), nil
}

// Save creates or updates a product, replacing its category links, size
// options and size stock rows.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductCategoryModel{}).Error; err != nil {
			return err
		}
		if len(product.Categories) > 0 {
			links := make([]models.ProductCategoryModel, len(product.Categories))
			for i, c := range product.Categories {
				links[i] = models.ProductCategoryModel{ProductID: product.ID, CategoryID: c.ID}
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductSizeOptionModel{}).Error; err != nil {
			return err
		}
		if len(product.Sizes) > 0 {
			options := make([]models.ProductSizeOptionModel, len(product.Sizes))
			for i, s := range product.Sizes {
				options[i] = models.ProductSizeOptionModel{ProductID: product.ID, SizeID: s.ID}
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&options).Error; err != nil {
				return err
			}
		}

		return saveStocks(tx, product)
	})
}

// saveStocks upserts the product's size stock rows and drops the rest
func saveStocks(tx *gorm.DB, product *catalog.Product) error {
	keep := make([]uuid.UUID, 0, len(product.SizeStocks))
	for _, s := range product.SizeStocks {
		keep = append(keep, s.SizeID)
	}

	stale := tx.Where("product_id = ?", product.ID)
	if len(keep) > 0 {
		stale = stale.Where("size_id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.ProductStockModel{}).Error; err != nil {
		return err
	}
	if len(product.SizeStocks) == 0 {
		return nil
	}

	stocks := make([]models.ProductStockModel, len(product.SizeStocks))
	for i, s := range product.SizeStocks {
		stocks[i] = models.ProductStockModelFromDomain(s)
		stocks[i].ProductID = product.ID
	}
	return tx.Omit("Size").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "size_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "price"}),
	}).Create(&stocks).Error
}

// Delete deletes a product together with its links and stock rows
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategoryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductSizeOptionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductStockModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsBySlug checks if a product with the given slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DecrementStock takes quantity units from the size stock row, or from the
// product stock when sizeID is nil. The update only matches while enough
// stock remains, so concurrent orders cannot oversell.
func (r *GormProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, sizeID *uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	var result *gorm.DB
	if sizeID == nil {
		result = r.db.WithContext(ctx).
			Model(&models.ProductModel{}).
			Where("id = ? AND stock_quantity >= ?", productID, quantity).
			Updates(map[string]any{
				"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
				"stock_status":   gorm.Expr(stockStatusCase, quantity, quantity),
				"updated_at":     time.Now(),
			})
	} else {
		result = r.db.WithContext(ctx).
			Model(&models.ProductStockModel{}).
			Where("product_id = ? AND size_id = ? AND quantity >= ?", productID, *sizeID, quantity).
			Update("quantity", gorm.Expr("quantity - ?", quantity))
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = paginate(query, filter)
	return query.Clauses(productSort.orderBy(filter))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			sub := r.db.Table("product_categories").
				Select("product_categories.product_id").
				Joins("JOIN categories ON categories.id = product_categories.category_id").
				Where("categories.slug = ?", value)
			query = query.Where("id IN (?)", sub)
		case "featured":
			query = query.Where("is_featured = ?", value)
		case "stock_status":
			query = query.Where("stock_status = ?", value)
		}
	}

	return query
}

func toDomainProducts(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
