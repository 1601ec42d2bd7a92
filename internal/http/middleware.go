package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/printingpress/internal/metrics"
)

// MetricsMiddleware records request counts and latencies by route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
