package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CouponModel is the persistence model for the Coupon aggregate.
type CouponModel struct {
	AggregateModel
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	DiscountPercent int             `gorm:"not null;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MinAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MaxDiscount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ValidFrom       time.Time       `gorm:"not null"`
	ValidTo         time.Time       `gorm:"not null;index"`
	UsageLimit      int             `gorm:"not null;default:1"`
	UsedCount       int             `gorm:"not null;default:0"`
	IsActive        bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CouponModel) TableName() string {
	return "coupons"
}

// ToDomain converts the persistence model to a domain Coupon.
func (m *CouponModel) ToDomain() *promotion.Coupon {
	return &promotion.Coupon{
		BaseAggregateRoot: m.root(),
		Code:              m.Code,
		DiscountPercent:   m.DiscountPercent,
		DiscountAmount:    m.DiscountAmount,
		MinAmount:         m.MinAmount,
		MaxDiscount:       m.MaxDiscount,
		ValidFrom:         m.ValidFrom,
		ValidTo:           m.ValidTo,
		UsageLimit:        m.UsageLimit,
		UsedCount:         m.UsedCount,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Coupon.
func (m *CouponModel) FromDomain(c *promotion.Coupon) {
	m.AggregateModel = aggregateColumns(c.BaseAggregateRoot)
	m.Code = c.Code
	m.DiscountPercent = c.DiscountPercent
	m.DiscountAmount = c.DiscountAmount
	m.MinAmount = c.MinAmount
	m.MaxDiscount = c.MaxDiscount
	m.ValidFrom = c.ValidFrom
	m.ValidTo = c.ValidTo
	m.UsageLimit = c.UsageLimit
	m.UsedCount = c.UsedCount
	m.IsActive = c.IsActive
}

// CouponModelFromDomain creates a new persistence model from a domain Coupon.
func CouponModelFromDomain(c *promotion.Coupon) *CouponModel {
	m := &CouponModel{}
	m.FromDomain(c)
	return m
}
