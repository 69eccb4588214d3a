package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CouponRequest creates or replaces a coupon's terms
type CouponRequest struct {
	Code            string          `json:"code" binding:"required,min=1,max=50"`
	DiscountPercent int             `json:"discount_percent" binding:"min=0,max=100"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	MaxDiscount     decimal.Decimal `json:"max_discount"`
	ValidFrom       time.Time       `json:"valid_from" binding:"required"`
	ValidTo         time.Time       `json:"valid_to" binding:"required"`
	UsageLimit      int             `json:"usage_limit" binding:"min=0"`
	IsActive        *bool           `json:"is_active"`
}

func (r CouponRequest) terms() promotion.CouponTerms {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return promotion.CouponTerms{
		DiscountPercent: r.DiscountPercent,
		DiscountAmount:  r.DiscountAmount,
		MinAmount:       r.MinAmount,
		MaxDiscount:     r.MaxDiscount,
		ValidFrom:       r.ValidFrom,
		ValidTo:         r.ValidTo,
		UsageLimit:      r.UsageLimit,
		IsActive:        active,
	}
}

// CouponQuery filters the admin coupon list
type CouponQuery struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	MinAmount       decimal.Decimal `json:"min_amount"`
	MaxDiscount     decimal.Decimal `json:"max_discount"`
	ValidFrom       time.Time       `json:"valid_from"`
	ValidTo         time.Time       `json:"valid_to"`
	UsageLimit      int             `json:"usage_limit"`
	UsedCount       int             `json:"used_count"`
	IsActive        bool            `json:"is_active"`
	IsValidNow      bool            `json:"is_valid_now"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToCouponResponse converts a domain coupon
func ToCouponResponse(c *promotion.Coupon, now time.Time) CouponResponse {
	return CouponResponse{
		ID:              c.ID,
		Code:            c.Code,
		DiscountPercent: c.DiscountPercent,
		DiscountAmount:  c.DiscountAmount,
		MinAmount:       c.MinAmount,
		MaxDiscount:     c.MaxDiscount,
		ValidFrom:       c.ValidFrom,
		ValidTo:         c.ValidTo,
		UsageLimit:      c.UsageLimit,
		UsedCount:       c.UsedCount,
		IsActive:        c.IsActive,
		IsValidNow:      c.IsValid(now),
		CreatedAt:       c.CreatedAt,
	}
}
