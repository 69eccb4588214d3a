package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// SQLLogConfig tunes the query log
type SQLLogConfig struct {
	// Level is the application log level; debug and info log every query.
	Level         string
	SlowThreshold time.Duration
	// HideSQL drops statement text, which carries customer emails and
	// phone numbers in order searches.
	HideSQL bool
}

// SQLLogger routes gorm's log output through zap. Queries are tagged with
// the request and shopper session they ran for.
type SQLLogger struct {
	log     *zap.Logger
	level   gormlogger.LogLevel
	slow    time.Duration
	hideSQL bool
}

var _ gormlogger.Interface = (*SQLLogger)(nil)

func NewSQLLogger(log *zap.Logger, cfg SQLLogConfig) *SQLLogger {
	return &SQLLogger{
		log:     log.Named("sql"),
		level:   gormLevel(cfg.Level),
		slow:    cfg.SlowThreshold,
		hideSQL: cfg.HideSQL,
	}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement. Missing rows are not errors here:
// product and coupon lookups miss routinely.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	var msg string
	switch {
	case failed && l.level >= gormlogger.Error:
		msg = "query failed"
	case slow && l.level >= gormlogger.Warn:
		msg = "slow query"
	case l.level >= gormlogger.Info:
		msg = "query"
	default:
		return
	}

	statement, rows := fc()
	fields := l.queryFields(ctx, statement, rows, elapsed)
	switch msg {
	case "query failed":
		l.log.Error(msg, append(fields, zap.Error(err))...)
	case "slow query":
		l.log.Warn(msg, append(fields, zap.Duration("threshold", l.slow))...)
	default:
		l.log.Debug(msg, fields...)
	}
}

func (l *SQLLogger) queryFields(ctx context.Context, statement string, rows int64, elapsed time.Duration) []zap.Field {
	fields := make([]zap.Field, 0, 5)
	fields = append(fields, zap.Duration("elapsed", elapsed), zap.Int64("rows", rows))
	if !l.hideSQL {
		fields = append(fields, zap.String("sql", statement))
	}
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetSessionID(ctx); id != "" {
		fields = append(fields, zap.String("session_id", id))
	}
	return fields
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
