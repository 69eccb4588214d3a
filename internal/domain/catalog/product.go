package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockStatus is derived from StockQuantity and never set directly.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// LowStockThreshold is the highest quantity still reported as low stock.
const LowStockThreshold = 5

// DefaultStockQuantity is the stock a newly created product starts with.
const DefaultStockQuantity = 1

// StockStatusFor maps a quantity to its stock status
func StockStatusFor(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// SpecialFeature is a merchandising badge shown on the product card.
type SpecialFeature string

const (
	FeatureNone            SpecialFeature = ""
	FeatureOrganic         SpecialFeature = "organic"
	FeaturePureA2          SpecialFeature = "pure_a2"
	FeatureNoPreservatives SpecialFeature = "no_preservatives"
	FeatureHandmade        SpecialFeature = "handmade"
	FeatureGlutenFree      SpecialFeature = "gluten_free"
	FeatureFarmFresh       SpecialFeature = "farm_fresh"
)

// IsValid reports whether f is empty or a known feature
func (f SpecialFeature) IsValid() bool {
	switch f {
	case FeatureNone, FeatureOrganic, FeaturePureA2, FeatureNoPreservatives,
		FeatureHandmade, FeatureGlutenFree, FeatureFarmFresh:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Product is the aggregate root of the catalog. Sizes lists the size options
// the product is offered in; SizeStocks carries the per-size price and
// quantity used for pricing and stock checks.
type Product struct {
	shared.BaseAggregateRoot
	Name             string
	Slug             string
	Image            string
	Price            decimal.Decimal
	DiscountPercent  int
	Rating           decimal.Decimal
	NumRatings       int
	StockQuantity    int
	StockStatus      StockStatus
	Description      string
	ShortDescription string
	SpecialFeatures  SpecialFeature
	IsFeatured       bool
	Categories       []Category
	Sizes            []ProductSize
	SizeStocks       []ProductStock
}

// NewProduct creates a new product with the default stock quantity.
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              Slugify(name),
		Price:             price,
		Rating:            decimal.Zero,
		StockQuantity:     DefaultStockQuantity,
		StockStatus:       StockStatusFor(DefaultStockQuantity),
	}

	product.AddDomainEvent(productChanged(EventTypeProductCreated, product))
	return product, nil
}

// Update replaces the descriptive fields of the product
func (p *Product) Update(name, description, shortDescription string, feature SpecialFeature, featured bool) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if !feature.IsValid() {
		return shared.NewDomainError("INVALID_FEATURE", "Unknown special feature: "+string(feature))
	}

	p.Name = name
	p.Description = description
	p.ShortDescription = shortDescription
	p.SpecialFeatures = feature
	p.IsFeatured = featured
	p.IncrementVersion()

	p.AddDomainEvent(productChanged(EventTypeProductUpdated, p))
	return nil
}

// MarkStockChanged records an update after per-size stock rows changed
func (p *Product) MarkStockChanged() {
	p.AddDomainEvent(productChanged(EventTypeProductUpdated, p))
}

// MarkRemoved records that the product left the catalog
func (p *Product) MarkRemoved() {
	p.AddDomainEvent(productChanged(EventTypeProductRemoved, p))
}

// SetPricing sets the base price and discount percent
func (p *Product) SetPricing(price decimal.Decimal, discountPercent int) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if discountPercent < 0 || discountPercent > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}

	p.Price = price
	p.DiscountPercent = discountPercent
	p.IncrementVersion()
	return nil
}

// SetRating sets the average rating (0 to 5) and the number of ratings
func (p *Product) SetRating(rating decimal.Decimal, count int) error {
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	if count < 0 {
		return shared.NewDomainError("INVALID_RATING", "Number of ratings cannot be negative")
	}
	p.Rating = rating
	p.NumRatings = count
	p.IncrementVersion()
	return nil
}

// SetStockQuantity sets the product-level stock and refreshes StockStatus
func (p *Product) SetStockQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	p.StockQuantity = quantity
	p.StockStatus = StockStatusFor(quantity)
	p.IncrementVersion()
	return nil
}

// SetSlug overrides the generated slug.
func (p *Product) SetSlug(slug string) error {
	slug = Slugify(slug)
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	p.Slug = slug
	p.IncrementVersion()
	return nil
}

// SetImage sets the storage key or URL of the product image
func (p *Product) SetImage(image string) {
	p.Image = image
	p.IncrementVersion()
}

// SetCategories replaces the product's categories
func (p *Product) SetCategories(categories []Category) {
	p.Categories = categories
	p.IncrementVersion()
}

// SetSizes replaces the size options the product is offered in
func (p *Product) SetSizes(sizes []ProductSize) {
	p.Sizes = sizes
	p.IncrementVersion()
}

// UpsertSizeStock creates or updates the stock row for a size. The size is
// added to Sizes when missing.
func (p *Product) UpsertSizeStock(size ProductSize, quantity int, price decimal.Decimal) (*ProductStock, error) {
	for i := range p.SizeStocks {
		if p.SizeStocks[i].SizeID == size.ID {
			if err := p.SizeStocks[i].Set(quantity, price); err != nil {
				return nil, err
			}
			p.IncrementVersion()
			return &p.SizeStocks[i], nil
		}
	}

	stock, err := NewProductStock(p.ID, size, quantity, price)
	if err != nil {
		return nil, err
	}
	p.SizeStocks = append(p.SizeStocks, *stock)
	if !p.OffersSize(size.ID) {
		p.Sizes = append(p.Sizes, size)
	}
	p.IncrementVersion()
	return &p.SizeStocks[len(p.SizeStocks)-1], nil
}

// OffersSize reports whether the size is in the product's size options
func (p *Product) OffersSize(sizeID uuid.UUID) bool {
	for _, s := range p.Sizes {
		if s.ID == sizeID {
			return true
		}
	}
	return false
}

// StockFor returns the stock row for a size, if one exists
func (p *Product) StockFor(sizeID uuid.UUID) (*ProductStock, bool) {
	for i := range p.SizeStocks {
		if p.SizeStocks[i].SizeID == sizeID {
			return &p.SizeStocks[i], true
		}
	}
	return nil, false
}

// applyDiscount applies the product discount to amount, rounded to paise.
func (p *Product) applyDiscount(amount decimal.Decimal) decimal.Decimal {
	multiplier := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(p.DiscountPercent)).Div(hundred))
	return amount.Mul(multiplier).Round(2)
}

// DiscountedPrice returns price * (1 - discount/100)
func (p *Product) DiscountedPrice() decimal.Decimal {
	return p.applyDiscount(p.Price)
}

// PriceForSize returns the discounted price of the size's stock row,
// falling back to DiscountedPrice when the size has no stock row.
func (p *Product) PriceForSize(sizeID uuid.UUID) decimal.Decimal {
	if stock, ok := p.StockFor(sizeID); ok {
		return p.applyDiscount(stock.Price)
	}
	return p.DiscountedPrice()
}

// PriceFor is PriceForSize for an optional size.
func (p *Product) PriceFor(sizeID *uuid.UUID) decimal.Decimal {
	if sizeID == nil {
		return p.DiscountedPrice()
	}
	return p.PriceForSize(*sizeID)
}

// StockForSize returns the size's stock quantity, falling back to the
// product-level StockQuantity.
func (p *Product) StockForSize(sizeID uuid.UUID) int {
	if stock, ok := p.StockFor(sizeID); ok {
		return stock.Quantity
	}
	return p.StockQuantity
}

// AvailableFor returns the stock a cart line may draw on. A size without a
// stock row is not sellable and reports ok=false.
func (p *Product) AvailableFor(sizeID *uuid.UUID) (available int, ok bool) {
	if sizeID == nil {
		return p.StockQuantity, true
	}
	stock, found := p.StockFor(*sizeID)
	if !found {
		return 0, false
	}
	return stock.Quantity, true
}

// SizeName returns the size code for sizeID, or "" when unknown
func (p *Product) SizeName(sizeID *uuid.UUID) string {
	if sizeID == nil {
		return ""
	}
	for _, s := range p.Sizes {
		if s.ID == *sizeID {
			return string(s.Name)
		}
	}
	if stock, ok := p.StockFor(*sizeID); ok {
		return string(stock.SizeName)
	}
	return ""
}

// InitialPrice is the discounted price of the first size, or the product's
// discounted price when it has no sizes.
func (p *Product) InitialPrice() decimal.Decimal {
	if len(p.SizeStocks) > 0 {
		return p.applyDiscount(p.SizeStocks[0].Price)
	}
	return p.DiscountedPrice()
}

// CategoryIDs returns the IDs of the product's categories
func (p *Product) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
