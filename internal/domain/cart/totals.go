package cart

import "github.com/shopspring/decimal"

// Pricing holds the store-wide shipping and gift wrap settings
type Pricing struct {
	ShippingThreshold decimal.Decimal
	ShippingCost      decimal.Decimal
	GiftWrapCost      decimal.Decimal
}

// DefaultPricing returns free shipping from 1000 and 50 for shipping and gift wrap
func DefaultPricing() Pricing {
	return Pricing{
		ShippingThreshold: decimal.NewFromInt(1000),
		ShippingCost:      decimal.NewFromInt(50),
		GiftWrapCost:      decimal.NewFromInt(50),
	}
}

// Totals is the price breakdown of a cart or order
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`
	ShippingCost   decimal.Decimal `json:"shipping_cost"`
	GiftWrapCost   decimal.Decimal `json:"gift_wrap_cost"`
	Total          decimal.Decimal `json:"total"`
	CartCount      int             `json:"cart_count"`
}

// ComputeTotals applies the pricing rules to a subtotal. An empty cart
// (subtotal zero and no units) costs nothing. The discount is capped at the
// subtotal and the total never drops below zero.
func ComputeTotals(subtotal decimal.Decimal, count int, coupon *AppliedCoupon, giftWrap bool, pricing Pricing) Totals {
	totals := Totals{
		Subtotal:       subtotal,
		CouponDiscount: decimal.Zero,
		ShippingCost:   decimal.Zero,
		GiftWrapCost:   decimal.Zero,
		Total:          decimal.Zero,
		CartCount:      count,
	}
	if count == 0 {
		return totals
	}

	if coupon != nil {
		totals.CouponCode = coupon.Code
		totals.CouponDiscount = decimal.Min(coupon.Discount, subtotal)
	}
	if subtotal.LessThan(pricing.ShippingThreshold) {
		totals.ShippingCost = pricing.ShippingCost
	}
	if giftWrap {
		totals.GiftWrapCost = pricing.GiftWrapCost
	}

	total := subtotal.Sub(totals.CouponDiscount).Add(totals.ShippingCost).Add(totals.GiftWrapCost)
	if total.IsNegative() {
		total = decimal.Zero
	}
	totals.Total = total
	return totals
}

// Totals returns the cart's price breakdown using its captured prices
func (c *Cart) Totals(pricing Pricing) Totals {
	return ComputeTotals(c.Subtotal(), c.Count(), c.AppliedCoupon, c.GiftWrap, pricing)
}
