package cart

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ItemKey identifies a cart line: a product in an optional size.
type ItemKey struct {
	ProductID uuid.UUID
	SizeID    *uuid.UUID
}

// NewItemKey creates an ItemKey
func NewItemKey(productID uuid.UUID, sizeID *uuid.UUID) ItemKey {
	return ItemKey{ProductID: productID, SizeID: sizeID}
}

// String renders the key as "<product>" or "<product>:<size>".
func (k ItemKey) String() string {
	if k.SizeID == nil {
		return k.ProductID.String()
	}
	return k.ProductID.String() + ":" + k.SizeID.String()
}

// Matches reports whether the key points at the same product and size
func (k ItemKey) Matches(productID uuid.UUID, sizeID *uuid.UUID) bool {
	return k.ProductID == productID && sameSize(k.SizeID, sizeID)
}

// ParseItemKey parses the String form of an ItemKey
func ParseItemKey(s string) (ItemKey, error) {
	productPart, sizePart, hasSize := strings.Cut(strings.TrimSpace(s), ":")
	productID, err := uuid.Parse(productPart)
	if err != nil {
		return ItemKey{}, shared.NewDomainError("INVALID_ITEM_KEY", "Invalid cart item key: "+s)
	}
	key := ItemKey{ProductID: productID}
	if hasSize {
		sizeID, err := uuid.Parse(sizePart)
		if err != nil {
			return ItemKey{}, shared.NewDomainError("INVALID_ITEM_KEY", "Invalid cart item key: "+s)
		}
		key.SizeID = &sizeID
	}
	return key, nil
}

// Item is one cart line. Price is the unit price captured when the line
// was added.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	SizeID    *uuid.UUID      `json:"size_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Key returns the line's identity
func (i Item) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, SizeID: i.SizeID}
}

// LineTotal returns price * quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func sameSize(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func indexOf(items []Item, productID uuid.UUID, sizeID *uuid.UUID) int {
	for i := range items {
		if items[i].ProductID == productID && sameSize(items[i].SizeID, sizeID) {
			return i
		}
	}
	return -1
}

// mergeInto adds item to items, summing quantities when the line exists.
func mergeInto(items []Item, item Item) []Item {
	if idx := indexOf(items, item.ProductID, item.SizeID); idx >= 0 {
		items[idx].Quantity += item.Quantity
		return items
	}
	return append(items, item)
}
