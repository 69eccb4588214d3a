// Package telemetry wires OpenTelemetry tracing, metrics and log export,
// and Pyroscope profiling, for the storefront API.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version on all signals
var ServiceVersion = "dev"

const shutdownTimeout = 10 * time.Second

// collector is the OTLP gRPC endpoint all three signals export to
type collector struct {
	endpoint string
	insecure bool
	service  string
}

func (c collector) resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(c.service),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}
	return res, nil
}

// shutdownSignal flushes one provider with a bounded wait
func shutdownSignal(ctx context.Context, log *zap.Logger, signal string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.String("signal", signal), zap.Error(err))
		return fmt.Errorf("shutdown %s: %w", signal, err)
	}
	log.Info("Telemetry flushed", zap.String("signal", signal))
	return nil
}

// Providers holds every telemetry provider the server starts. Disabled
// signals are present but inert, so callers never check for nil.
type Providers struct {
	Tracing  *Tracing
	Metrics  *Metrics
	Logs     *LogExport
	Profiler *Profiling
}

// Setup starts the signals enabled in cfg. On failure everything already
// started is shut down again.
func Setup(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (*Providers, error) {
	c := collector{endpoint: cfg.CollectorEndpoint, insecure: cfg.Insecure, service: cfg.ServiceName}
	p := &Providers{Tracing: &Tracing{log: log}, Metrics: &Metrics{log: log}, Logs: &LogExport{log: log}, Profiler: &Profiling{}}

	var err error
	if cfg.Enabled {
		if p.Tracing, err = startTracing(ctx, c, cfg.SamplingRatio, log); err != nil {
			return nil, err
		}
		if cfg.MetricsEnabled {
			if p.Metrics, err = startMetrics(ctx, c, cfg.MetricsInterval, log); err != nil {
				return nil, errors.Join(err, p.Tracing.Shutdown(ctx))
			}
		}
		if cfg.LogsEnabled {
			if p.Logs, err = startLogExport(ctx, c, log); err != nil {
				return nil, errors.Join(err, p.Tracing.Shutdown(ctx), p.Metrics.Shutdown(ctx))
			}
		}
	} else {
		log.Info("Telemetry export disabled")
	}

	if cfg.ProfilingEnabled {
		if p.Profiler, err = startProfiling(cfg.ProfilingEndpoint, cfg.ServiceName, log); err != nil {
			return nil, errors.Join(err, p.Tracing.Shutdown(ctx), p.Metrics.Shutdown(ctx), p.Logs.Shutdown(ctx))
		}
	}
	if p.Profiler.Enabled() {
		p.Tracing.EnableSpanProfiles()
	}
	return p, nil
}

// Shutdown flushes and stops every provider, returning all errors joined
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Profiler.Stop(),
		p.Logs.Shutdown(ctx),
		p.Metrics.Shutdown(ctx),
		p.Tracing.Shutdown(ctx),
	)
}
