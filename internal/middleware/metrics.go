package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/metrics"
)

// MetricsMiddleware records request count and latency per route.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
