package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.AggregateModel = aggregateColumns(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Slug = c.Slug
	m.Description = c.Description
}

// SizeModel is a size option shared across products.
type SizeModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(10);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SizeModel) TableName() string {
	return "product_sizes"
}

// ToDomain converts the persistence model to a domain ProductSize.
func (m *SizeModel) ToDomain() catalog.ProductSize {
	return catalog.ProductSize{ID: m.ID, Name: catalog.SizeName(m.Name)}
}

// SizeModelFromDomain creates a persistence model from a domain ProductSize.
func SizeModelFromDomain(s catalog.ProductSize) *SizeModel {
	return &SizeModel{ID: s.ID, Name: string(s.Name)}
}

// ProductModel is the persistence model for the Product aggregate.
// Categories and Sizes are loaded through join tables; Stocks carry the
// per-size price and quantity.
type ProductModel struct {
	AggregateModel
	Name             string              `gorm:"type:varchar(200);not null"`
	Slug             string              `gorm:"type:varchar(220);not null;uniqueIndex"`
	Image            string              `gorm:"type:varchar(500)"`
	Price            decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountPercent  int                 `gorm:"not null;default:0"`
	Rating           decimal.Decimal     `gorm:"type:decimal(2,1);not null;default:0"`
	NumRatings       int                 `gorm:"not null;default:0"`
	StockQuantity    int                 `gorm:"not null;default:1"`
	StockStatus      catalog.StockStatus `gorm:"type:varchar(20);not null;default:'low_stock';index"`
	Description      string              `gorm:"type:text"`
	ShortDescription string              `gorm:"type:varchar(500)"`
	SpecialFeatures  string              `gorm:"type:varchar(30)"`
	IsFeatured       bool                `gorm:"not null;default:false;index"`

	Categories []CategoryModel     `gorm:"many2many:product_categories;joinForeignKey:ProductID;joinReferences:CategoryID"`
	Sizes      []SizeModel         `gorm:"many2many:product_size_options;joinForeignKey:ProductID;joinReferences:SizeID"`
	Stocks     []ProductStockModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		Slug:              m.Slug,
		Image:             m.Image,
		Price:             m.Price,
		DiscountPercent:   m.DiscountPercent,
		Rating:            m.Rating,
		NumRatings:        m.NumRatings,
		StockQuantity:     m.StockQuantity,
		StockStatus:       m.StockStatus,
		Description:       m.Description,
		ShortDescription:  m.ShortDescription,
		SpecialFeatures:   catalog.SpecialFeature(m.SpecialFeatures),
		IsFeatured:        m.IsFeatured,
		Categories:        make([]catalog.Category, 0, len(m.Categories)),
		Sizes:             make([]catalog.ProductSize, 0, len(m.Sizes)),
		SizeStocks:        make([]catalog.ProductStock, 0, len(m.Stocks)),
	}
	for i := range m.Categories {
		p.Categories = append(p.Categories, *m.Categories[i].ToDomain())
	}
	for i := range m.Sizes {
		p.Sizes = append(p.Sizes, m.Sizes[i].ToDomain())
	}
	for i := range m.Stocks {
		p.SizeStocks = append(p.SizeStocks, m.Stocks[i].ToDomain())
	}
	return p
}

// FromDomain populates the product columns. Associations are written by the
// repository through the join tables.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.AggregateModel = aggregateColumns(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Image = p.Image
	m.Price = p.Price
	m.DiscountPercent = p.DiscountPercent
	m.Rating = p.Rating
	m.NumRatings = p.NumRatings
	m.StockQuantity = p.StockQuantity
	m.StockStatus = p.StockStatus
	m.Description = p.Description
	m.ShortDescription = p.ShortDescription
	m.SpecialFeatures = string(p.SpecialFeatures)
	m.IsFeatured = p.IsFeatured
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductCategoryModel links products to categories.
type ProductCategoryModel struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

// ProductSizeOptionModel links products to the sizes they are offered in.
type ProductSizeOptionModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SizeID    uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (ProductSizeOptionModel) TableName() string {
	return "product_size_options"
}

// ProductStockModel is the per-size price and quantity of a product.
type ProductStockModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_size,priority:1"`
	SizeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_size,priority:2"`
	Quantity  int             `gorm:"not null;default:5"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Size      SizeModel       `gorm:"foreignKey:SizeID"`
}

// TableName returns the table name for GORM
func (ProductStockModel) TableName() string {
	return "product_stocks"
}

// ToDomain converts the persistence model to a domain ProductStock.
func (m *ProductStockModel) ToDomain() catalog.ProductStock {
	return catalog.ProductStock{
		ID:        m.ID,
		ProductID: m.ProductID,
		SizeID:    m.SizeID,
		SizeName:  catalog.SizeName(m.Size.Name),
		Quantity:  m.Quantity,
		Price:     m.Price,
	}
}

// ProductStockModelFromDomain creates a persistence model from a domain ProductStock.
func ProductStockModelFromDomain(s catalog.ProductStock) ProductStockModel {
	return ProductStockModel{
		ID:        s.ID,
		ProductID: s.ProductID,
		SizeID:    s.SizeID,
		Quantity:  s.Quantity,
		Price:     s.Price,
	}
}
