package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Tracing owns the global tracer provider. The zero value is disabled and
// leaves otel's no-op provider in place.
type Tracing struct {
	sdk          *sdktrace.TracerProvider
	log          *zap.Logger
	spanProfiles atomic.Bool
}

func startTracing(ctx context.Context, c collector, ratio float64, log *zap.Logger) (*Tracing, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	res, err := c.resource()
	if err != nil {
		return nil, err
	}

	t := &Tracing{log: log}
	t.sdk = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(ratio)),
	)
	otel.SetTracerProvider(t.sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("Trace export started",
		zap.String("collector", c.endpoint),
		zap.Float64("sampling_ratio", ratio),
	)
	return t, nil
}

// samplerFor follows the parent's decision; root spans are sampled by ratio
func samplerFor(ratio float64) sdktrace.Sampler {
	root := sdktrace.TraceIDRatioBased(ratio)
	switch {
	case ratio >= 1:
		root = sdktrace.AlwaysSample()
	case ratio <= 0:
		root = sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(root)
}

func (t *Tracing) Enabled() bool {
	return t != nil && t.sdk != nil
}

// EnableSpanProfiles labels CPU profiles with the active span ID. Call it
// once the Pyroscope profiler is running; later calls are no-ops.
func (t *Tracing) EnableSpanProfiles() {
	if !t.Enabled() || !t.spanProfiles.CompareAndSwap(false, true) {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(t.sdk))
	t.log.Info("Span profiles enabled")
}

func (t *Tracing) SpanProfiles() bool {
	return t != nil && t.spanProfiles.Load()
}

// Flush exports buffered spans without stopping the provider
func (t *Tracing) Flush(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return t.sdk.ForceFlush(ctx)
}

func (t *Tracing) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return shutdownSignal(ctx, t.log, "traces", t.sdk.Shutdown)
}
