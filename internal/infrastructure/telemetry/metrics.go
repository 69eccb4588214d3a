package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = time.Minute

// Metrics owns the global meter provider. The zero value is disabled and
// hands out otel's global (no-op) meters.
type Metrics struct {
	sdk *sdkmetric.MeterProvider
	log *zap.Logger
}

func startMetrics(ctx context.Context, c collector, interval time.Duration, log *zap.Logger) (*Metrics, error) {
	if interval <= 0 {
		interval = defaultExportInterval
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	res, err := c.resource()
	if err != nil {
		return nil, err
	}

	m := &Metrics{log: log}
	m.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(m.sdk)

	log.Info("Metric export started",
		zap.String("collector", c.endpoint),
		zap.Duration("interval", interval),
	)
	return m, nil
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.sdk != nil
}

func (m *Metrics) Meter(name string) metric.Meter {
	if !m.Enabled() {
		return otel.GetMeterProvider().Meter(name)
	}
	return m.sdk.Meter(name)
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	return shutdownSignal(ctx, m.log, "metrics", m.sdk.Shutdown)
}

// Instruments builds a batch of instruments on one meter. The first
// creation error is kept and reported by Err, so constructors check once.
type Instruments struct {
	meter metric.Meter
	err   error
}

func NewInstruments(meter metric.Meter) *Instruments {
	return &Instruments{meter: meter}
}

func (in *Instruments) Err() error {
	return in.err
}

func (in *Instruments) fail(name string, err error) {
	if in.err == nil && err != nil {
		in.err = fmt.Errorf("create instrument %s: %w", name, err)
	}
}

// Counter is a monotonically increasing int64 sum
type Counter struct {
	inst metric.Int64Counter
}

func (in *Instruments) Counter(name, description, unit string) *Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.fail(name, err)
	return &Counter{inst: c}
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if c.inst != nil {
		c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram is a float64 distribution with explicit bucket bounds
type Histogram struct {
	inst metric.Float64Histogram
}

func (in *Instruments) Histogram(name, description, unit string, bounds ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(bounds) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(bounds...))
	}
	h, err := in.meter.Float64Histogram(name, opts...)
	in.fail(name, err)
	return &Histogram{inst: h}
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	if h.inst != nil {
		h.inst.Record(ctx, v, metric.WithAttributes(attrs...))
	}
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Gauge is a point-in-time int64 value
type Gauge struct {
	inst metric.Int64Gauge
}

func (in *Instruments) Gauge(name, description, unit string) *Gauge {
	g, err := in.meter.Int64Gauge(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.fail(name, err)
	return &Gauge{inst: g}
}

func (g *Gauge) Record(ctx context.Context, v int64, attrs ...attribute.KeyValue) {
	if g.inst != nil {
		g.inst.Record(ctx, v, metric.WithAttributes(attrs...))
	}
}

// UpDown is an int64 sum that can go down, e.g. in-flight requests
type UpDown struct {
	inst metric.Int64UpDownCounter
}

func (in *Instruments) UpDown(name, description, unit string) *UpDown {
	u, err := in.meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	in.fail(name, err)
	return &UpDown{inst: u}
}

func (u *UpDown) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	if u.inst != nil {
		u.inst.Add(ctx, n, metric.WithAttributes(attrs...))
	}
}

// Attribute keys shared by storefront metrics and spans
var (
	AttrPaymentMethod = attribute.Key("payment_method")
	AttrStockStatus   = attribute.Key("stock_status")
	AttrCouponCode    = attribute.Key("coupon_code")
	AttrCouponResult  = attribute.Key("result")
	AttrJobName       = attribute.Key("job.name")
	AttrEventType     = attribute.Key("event.type")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
)

// Bucket bounds: request latency in seconds, response size in bytes and
// order totals in rupees
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	ResponseSizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000}
	OrderValueBuckets   = []float64{100, 250, 500, 1000, 2000, 5000, 10000, 25000}
)
