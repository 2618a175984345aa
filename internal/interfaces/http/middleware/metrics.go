package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventory/backend/internal/infrastructure/telemetry"
)

// Metrics records request counts and latency per route. The route template
// (c.FullPath) is used instead of the raw URL to keep label cardinality
// bounded.
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
