package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockStatusProvider counts products per stock_status with GORM.
type GormStockStatusProvider struct {
	db *gorm.DB
}

// NewGormStockStatusProvider creates a new GormStockStatusProvider.
func NewGormStockStatusProvider(db *gorm.DB) *GormStockStatusProvider {
	return &GormStockStatusProvider{db: db}
}

// CountByStockStatus returns the product count for every stock status,
// reporting zero for statuses with no products.
func (p *GormStockStatusProvider) CountByStockStatus(ctx context.Context) (map[string]int64, error) {
	type result struct {
		StockStatus string `gorm:"column:stock_status"`
		Total       int64  `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("products").
		Select("stock_status, COUNT(*) AS total").
		Group("stock_status").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{"in_stock": 0, "low_stock": 0, "out_of_stock": 0}
	for _, r := range results {
		counts[r.StockStatus] = r.Total
	}
	return counts, nil
}

var _ StockStatusProvider = (*GormStockStatusProvider)(nil)
