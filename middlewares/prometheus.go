package middlewares

import (
	"strconv"
	"time"

	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware labels requests by route template, not raw path.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HttpRequestsTotal.WithLabelValues(
			method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HttpRequestDuration.WithLabelValues(
			method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}
