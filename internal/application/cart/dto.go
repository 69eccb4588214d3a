package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
)

// ItemRequest identifies a cart line, with a quantity where relevant
type ItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	SizeID    *uuid.UUID `json:"size_id"`
	Quantity  int        `json:"quantity"`
}

// BulkUpdateRequest sets quantities keyed by "<product>" or "<product>:<size>"
type BulkUpdateRequest struct {
	Quantities map[string]int `json:"quantities" binding:"required"`
}

// GiftWrapRequest toggles gift wrapping
type GiftWrapRequest struct {
	GiftWrap bool `json:"gift_wrap"`
}

// CouponRequest applies a coupon code
type CouponRequest struct {
	Code string `json:"code" binding:"required,max=50"`
}

// CountResponse carries the cart count after a mutation
type CountResponse struct {
	CartCount int    `json:"cart_count"`
	Message   string `json:"message,omitempty"`
}

// Line is a cart line joined with its product
type Line struct {
	Key             string          `json:"key"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Slug            string          `json:"slug"`
	Image           string          `json:"image"`
	SizeID          *uuid.UUID      `json:"size_id,omitempty"`
	SizeName        string          `json:"size_name,omitempty"`
	SizeDisplayName string          `json:"size_display_name,omitempty"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Available       int             `json:"available"`
	StockStatus     string          `json:"stock_status"`
}

// View is the full cart page
type View struct {
	Items                 []Line                       `json:"items"`
	SavedForLater         []Line                       `json:"saved_for_later"`
	GiftWrap              bool                         `json:"gift_wrap"`
	AppliedCoupon         *cart.AppliedCoupon          `json:"applied_coupon,omitempty"`
	Totals                cart.Totals                  `json:"totals"`
	FreeShippingRemaining decimal.Decimal              `json:"free_shipping_remaining"`
	CartCount             int                          `json:"cart_count"`
	Suggested             []catalogapp.ProductResponse `json:"suggested"`
	RecentlyViewed        []catalogapp.ProductResponse `json:"recently_viewed"`
}
