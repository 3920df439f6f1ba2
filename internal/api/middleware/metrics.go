package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maishenyun/stockboard/internal/metrics"
)

// Metrics records request duration per route template and status code.
// Unmatched paths share one label so scrapes cannot explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
