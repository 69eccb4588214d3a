package telemetry

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when StoreMetrics is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StockStatusProvider reports how many products are in each stock status.
type StockStatusProvider interface {
	CountByStockStatus(ctx context.Context) (map[string]int64, error)
}

// StoreMetricsConfig holds configuration for StoreMetrics.
type StoreMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	StockProvider   StockStatusProvider
}

// StoreMetrics records storefront business metrics: orders, revenue, cart
// activity, coupon use and catalog stock levels.
type StoreMetrics struct {
	logger *zap.Logger

	ordersPlaced   *Counter
	revenuePaise   *Counter
	orderValue     *Histogram
	unitsSold      *Counter
	cartAdds       *Counter
	couponAttempts *Counter
	productsStock  *Gauge

	stockProvider StockStatusProvider
	refresh       chan struct{}
	stopChan      chan struct{}
	stopOnce      sync.Once
	collectOnce   sync.Once
	wg            sync.WaitGroup
}

// NewStoreMetrics creates all storefront instruments on the given meter.
func NewStoreMetrics(cfg StoreMetricsConfig) (*StoreMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &StoreMetrics{
		logger:        logger,
		stockProvider: cfg.StockProvider,
		refresh:       make(chan struct{}, 1),
		stopChan:      make(chan struct{}),
	}

	in := NewInstruments(cfg.Meter)
	sm.ordersPlaced = in.Counter("store_orders_placed_total", "Total number of orders placed", "{orders}")
	sm.revenuePaise = in.Counter("store_revenue_paise_total", "Total order value in paise", "{paise}")
	sm.orderValue = in.Histogram("store_order_value", "Distribution of order totals", "{INR}", OrderValueBuckets...)
	sm.unitsSold = in.Counter("store_units_sold_total", "Total product units sold", "{units}")
	sm.cartAdds = in.Counter("store_cart_adds_total", "Units added to carts", "{units}")
	sm.couponAttempts = in.Counter("store_coupon_attempts_total", "Coupon apply attempts", "{attempts}")
	sm.productsStock = in.Gauge("store_products_by_stock_status", "Number of products per stock status", "{products}")
	if err := in.Err(); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordOrderPlaced records a placed order and its value.
func (sm *StoreMetrics) RecordOrderPlaced(ctx context.Context, total decimal.Decimal, paymentMethod string, units int) {
	attrs := AttrPaymentMethod.String(paymentMethod)
	sm.ordersPlaced.Inc(ctx, attrs)
	sm.revenuePaise.Add(ctx, total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), attrs)
	sm.orderValue.Record(ctx, total.InexactFloat64(), attrs)
	if units > 0 {
		sm.unitsSold.Add(ctx, int64(units))
	}
}

// RecordCartAdd records units added to a cart.
func (sm *StoreMetrics) RecordCartAdd(ctx context.Context, quantity int) {
	if quantity <= 0 {
		return
	}
	sm.cartAdds.Add(ctx, int64(quantity))
}

// RecordCouponApplied records a coupon apply attempt and whether it succeeded.
func (sm *StoreMetrics) RecordCouponApplied(ctx context.Context, code string, ok bool) {
	result := "rejected"
	if ok {
		result = "applied"
	}
	sm.couponAttempts.Inc(ctx, AttrCouponCode.String(code), AttrCouponResult.String(result))
}

// RecordStockStatus records the number of products in a stock status.
func (sm *StoreMetrics) RecordStockStatus(ctx context.Context, status string, count int64) {
	sm.productsStock.Record(ctx, count, AttrStockStatus.String(status))
}

// StartPeriodicCollection collects the stock gauges now and then every
// interval until Stop is called or ctx ends. Only the first call starts a loop.
func (sm *StoreMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		sm.wg.Add(1)
		go sm.runPeriodicCollection(ctx, interval)
	})
}

func (sm *StoreMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer sm.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.collectStockMetrics(ctx)
	for {
		select {
		case <-sm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.collectStockMetrics(ctx)
		case <-sm.refresh:
			sm.collectStockMetrics(ctx)
		}
	}
}

func (sm *StoreMetrics) collectStockMetrics(ctx context.Context) {
	if sm.stockProvider == nil {
		return
	}
	counts, err := sm.stockProvider.CountByStockStatus(ctx)
	if err != nil {
		sm.logger.Warn("Failed to collect stock status metrics", zap.Error(err))
		return
	}
	for status, count := range counts {
		sm.RecordStockStatus(ctx, status, count)
	}
}

// EventTypes lists the events that move stock levels
func (sm *StoreMetrics) EventTypes() []string {
	return append(slices.Clone(catalog.ProductEventTypes), trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged)
}

// Handle schedules a stock gauge refresh on the collection loop. Refreshes
// requested while one is pending are merged.
func (sm *StoreMetrics) Handle(_ context.Context, _ shared.DomainEvent) error {
	select {
	case sm.refresh <- struct{}{}:
	default:
	}
	return nil
}

// Stop stops periodic collection and waits for the loop to exit.
func (sm *StoreMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
	sm.wg.Wait()
}

var (
	_ cartapp.Metrics       = (*StoreMetrics)(nil)
	_ tradeapp.OrderMetrics = (*StoreMetrics)(nil)
	_ shared.EventHandler   = (*StoreMetrics)(nil)
)
