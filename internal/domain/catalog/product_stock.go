package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// DefaultSizeStockQuantity is the quantity a new size stock row starts with
// when none is given.
const DefaultSizeStockQuantity = 5

// ProductStock is the per-size price and quantity of a product. A product
// has at most one row per size.
type ProductStock struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	SizeID    uuid.UUID
	SizeName  SizeName
	Quantity  int
	Price     decimal.Decimal
}

// NewProductStock creates a stock row for a product size
func NewProductStock(productID uuid.UUID, size ProductSize, quantity int, price decimal.Decimal) (*ProductStock, error) {
	stock := &ProductStock{
		ID:        uuid.New(),
		ProductID: productID,
		SizeID:    size.ID,
		SizeName:  size.Name,
	}
	if err := stock.Set(quantity, price); err != nil {
		return nil, err
	}
	return stock, nil
}

// Set updates quantity and price
func (s *ProductStock) Set(quantity int, price decimal.Decimal) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	s.Quantity = quantity
	s.Price = price
	return nil
}
