package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogExport ships zap entries to the collector through the otelzap bridge.
// The zero value is disabled.
type LogExport struct {
	sdk *sdklog.LoggerProvider
	log *zap.Logger
}

func startLogExport(ctx context.Context, c collector, log *zap.Logger) (*LogExport, error) {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create log exporter: %w", err)
	}
	res, err := c.resource()
	if err != nil {
		return nil, err
	}

	l := &LogExport{log: log}
	l.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(l.sdk)

	log.Info("Log export started", zap.String("collector", c.endpoint))
	return l, nil
}

func (l *LogExport) Enabled() bool {
	return l != nil && l.sdk != nil
}

func (l *LogExport) Shutdown(ctx context.Context) error {
	if !l.Enabled() {
		return nil
	}
	return shutdownSignal(ctx, l.log, "logs", l.sdk.Shutdown)
}

// Core returns a zap core teeing entries at or above threshold to the collector.
// It is a nop core when export is disabled.
func (l *LogExport) Core(service string, threshold zapcore.Level) zapcore.Core {
	if !l.Enabled() {
		return zapcore.NewNopCore()
	}
	return &minLevelCore{
		Core: otelzap.NewCore(service, otelzap.WithLoggerProvider(l.sdk)),
		min:  threshold,
	}
}

// minLevelCore drops entries below min before they reach the bridge
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
