package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
	// TracerProvider overrides the global provider, mainly for tests.
	TracerProvider trace.TracerProvider
	// SkipPathPrefixes are not traced (health checks, API docs).
	SkipPathPrefixes []string
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:      "storefront-backend",
		Enabled:          true,
		SkipPathPrefixes: []string{"/health", "/swagger"},
	}
}

// Tracing returns the OpenTelemetry tracing handlers for router.Use. The
// first wraps otelgin, whose span name is the matched route. The second runs
// inside that span after the rest of the chain, adding request, session and
// user IDs and marking 4xx/5xx responses with codes.Error.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			for _, prefix := range cfg.SkipPathPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					return false
				}
			}
			return true
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}

	return gin.HandlersChain{otelgin.Middleware(cfg.ServiceName, opts...), enrichRequestSpan}
}

func enrichRequestSpan(c *gin.Context) {
	c.Next()

	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	enrichSpan(c, span)
	markSpanStatus(span, c.Writer.Status())
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := c.GetString(logger.GinSessionIDKey); id != "" {
		span.SetAttributes(attribute.String("session_id", id))
	}
	if id := GetJWTUserID(c); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
}

func markSpanStatus(span trace.Span, status int) {
	if status < http.StatusBadRequest {
		return
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}
