package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label names attached to CPU samples taken while a request runs
const (
	ProfilingLabelMethod = "method"
	ProfilingLabelRoute  = "route"
	ProfilingLabelArea   = "area"
)

// Profiling tags the request goroutine with pyroscope labels so profiles can
// be sliced by route. It is a no-op when disabled.
func Profiling(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if !enabled || route == "" || strings.HasPrefix(route, "/health") || strings.HasPrefix(route, "/swagger") {
			c.Next()
			return
		}

		labels := pyroscope.Labels(
			ProfilingLabelMethod, c.Request.Method,
			ProfilingLabelRoute, route,
			ProfilingLabelArea, routeArea(route),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeArea returns the first resource segment after /api/v1, e.g. "cart"
// for "/api/v1/cart/items" and "admin" for any back-office route.
func routeArea(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/v1/")
	if !ok {
		return "other"
	}
	area, _, _ := strings.Cut(rest, "/")
	if area == "" || strings.HasPrefix(area, ":") {
		return "other"
	}
	return area
}
