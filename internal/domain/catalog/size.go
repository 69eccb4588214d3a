package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// SizeName is one of the fixed size codes a product can be sold in.
type SizeName string

const (
	SizeXS   SizeName = "XS"
	SizeS    SizeName = "S"
	SizeM    SizeName = "M"
	SizeL    SizeName = "L"
	SizeXL   SizeName = "XL"
	SizeXXL  SizeName = "XXL"
	Size100g SizeName = "100g"
	Size250g SizeName = "250g"
	Size500g SizeName = "500g"
	Size900g SizeName = "900g"
	Size1kg  SizeName = "1kg"
	Size5kg  SizeName = "5kg"
)

var sizeDisplayNames = map[SizeName]string{
	SizeXS:   "Extra Small",
	SizeS:    "Small",
	SizeM:    "Medium",
	SizeL:    "Large",
	SizeXL:   "Extra Large",
	SizeXXL:  "Double Extra Large",
	Size100g: "100g",
	Size250g: "250g",
	Size500g: "500g",
	Size900g: "900g",
	Size1kg:  "1kg",
	Size5kg:  "5kg",
}

// AllSizeNames returns the size codes in display order.
func AllSizeNames() []SizeName {
	return []SizeName{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL,
		Size100g, Size250g, Size500g, Size900g, Size1kg, Size5kg}
}

// IsValid reports whether n is a known size code
func (n SizeName) IsValid() bool {
	_, ok := sizeDisplayNames[n]
	return ok
}

// DisplayName returns the human label for the size code
func (n SizeName) DisplayName() string {
	if label, ok := sizeDisplayNames[n]; ok {
		return label
	}
	return string(n)
}

// ProductSize is a size option shared across products.
type ProductSize struct {
	ID   uuid.UUID
	Name SizeName
}

// NewProductSize creates a size option for a known size code
func NewProductSize(name SizeName) (*ProductSize, error) {
	if !name.IsValid() {
		return nil, shared.NewDomainError("INVALID_SIZE", "Unknown size: "+string(name))
	}
	return &ProductSize{ID: uuid.New(), Name: name}, nil
}

// DisplayName returns the human label
func (s ProductSize) DisplayName() string {
	return s.Name.DisplayName()
}
