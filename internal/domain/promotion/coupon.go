package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Coupon error codes
const (
	CodeCouponNotFound  = "COUPON_NOT_FOUND"
	CodeCouponInvalid   = "COUPON_INVALID"
	CodeCouponMinAmount = "COUPON_MIN_AMOUNT"
	CodeCouponExhausted = "COUPON_EXHAUSTED"
)

var (
	// ErrCouponNotFound is returned for codes that match no coupon.
	ErrCouponNotFound = shared.NewDomainError(CodeCouponNotFound, "Invalid coupon code.")
	// ErrCouponInvalid covers inactive, expired, not-yet-valid and used-up coupons.
	ErrCouponInvalid = shared.NewDomainError(CodeCouponInvalid, "This coupon has expired or is no longer valid.")
	// ErrCouponExhausted is returned when a conditional redemption finds no uses left.
	ErrCouponExhausted = shared.NewDomainError(CodeCouponExhausted, "This coupon has reached its usage limit.")
)

var hundred = decimal.NewFromInt(100)

// Coupon is a discount rule with a validity window and a usage cap. Only one
// of DiscountPercent and DiscountAmount is ever non-zero.
type Coupon struct {
	shared.BaseAggregateRoot
	Code            string
	DiscountPercent int
	DiscountAmount  decimal.Decimal
	MinAmount       decimal.Decimal
	MaxDiscount     decimal.Decimal
	ValidFrom       time.Time
	ValidTo         time.Time
	UsageLimit      int
	UsedCount       int
	IsActive        bool
}

// CouponTerms holds the editable fields of a coupon
type CouponTerms struct {
	DiscountPercent int
	DiscountAmount  decimal.Decimal
	MinAmount       decimal.Decimal
	MaxDiscount     decimal.Decimal
	ValidFrom       time.Time
	ValidTo         time.Time
	UsageLimit      int
	IsActive        bool
}

// NormalizeCode trims and uppercases a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates a new coupon. A usage limit of 0 defaults to 1.
func NewCoupon(code string, terms CouponTerms) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot exceed 50 characters")
	}

	coupon := &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
	}
	if err := coupon.apply(terms); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update replaces the coupon terms. The code and used count are kept.
func (c *Coupon) Update(terms CouponTerms) error {
	if err := c.apply(terms); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Coupon) apply(terms CouponTerms) error {
	if terms.DiscountPercent < 0 || terms.DiscountPercent > 100 {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if terms.DiscountAmount.IsNegative() || terms.MinAmount.IsNegative() || terms.MaxDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Coupon amounts cannot be negative")
	}
	if terms.DiscountPercent == 0 && terms.DiscountAmount.IsZero() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Coupon must have a discount percent or a discount amount")
	}
	if !terms.ValidTo.After(terms.ValidFrom) {
		return shared.NewDomainError("INVALID_VALIDITY", "Valid to must be after valid from")
	}
	if terms.UsageLimit == 0 {
		terms.UsageLimit = 1
	}
	if terms.UsageLimit < 1 {
		return shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit must be at least 1")
	}

	// percent wins when both are given
	if terms.DiscountPercent > 0 {
		terms.DiscountAmount = decimal.Zero
	}

	c.DiscountPercent = terms.DiscountPercent
	c.DiscountAmount = terms.DiscountAmount
	c.MinAmount = terms.MinAmount
	c.MaxDiscount = terms.MaxDiscount
	c.ValidFrom = terms.ValidFrom
	c.ValidTo = terms.ValidTo
	c.UsageLimit = terms.UsageLimit
	c.IsActive = terms.IsActive
	return nil
}

// IsValid reports whether the coupon is active, inside its window and has
// uses left at now.
func (c *Coupon) IsValid(now time.Time) bool {
	return c.IsActive &&
		!now.Before(c.ValidFrom) &&
		!now.After(c.ValidTo) &&
		c.UsedCount < c.UsageLimit
}

// CanApply reports whether the coupon applies to an order of amount
func (c *Coupon) CanApply(amount decimal.Decimal, now time.Time) bool {
	return c.IsValid(now) && amount.GreaterThanOrEqual(c.MinAmount)
}

// Validate returns the error a shopper sees when the coupon cannot be used
// on an order of amount.
func (c *Coupon) Validate(amount decimal.Decimal, now time.Time) error {
	if !c.IsValid(now) {
		return ErrCouponInvalid
	}
	if amount.LessThan(c.MinAmount) {
		return shared.NewDomainError(CodeCouponMinAmount,
			"Minimum order amount of ₹"+c.MinAmount.StringFixed(2)+" required for this coupon.")
	}
	return nil
}

// CalculateDiscount returns the discount for an order of amount. The result
// is zero when the coupon cannot apply and never exceeds amount.
func (c *Coupon) CalculateDiscount(amount decimal.Decimal, now time.Time) decimal.Decimal {
	if !c.CanApply(amount, now) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	if c.DiscountPercent > 0 {
		discount = amount.Mul(decimal.NewFromInt(int64(c.DiscountPercent))).Div(hundred).Round(2)
		if c.MaxDiscount.IsPositive() && discount.GreaterThan(c.MaxDiscount) {
			discount = c.MaxDiscount
		}
	} else {
		discount = c.DiscountAmount
	}

	return decimal.Min(discount, amount)
}

// Redeem uses up one redemption
func (c *Coupon) Redeem(now time.Time) error {
	if !c.IsValid(now) {
		return ErrCouponInvalid
	}
	c.UsedCount++
	c.IncrementVersion()
	return nil
}

// IsExpired reports whether ValidTo has passed
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ValidTo)
}

// Deactivate switches the coupon off
func (c *Coupon) Deactivate() {
	if !c.IsActive {
		return
	}
	c.IsActive = false
	c.IncrementVersion()
}
