package middlewares

import (
	"nutrilog/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records every request under its route template, so
// /meals/abc and /meals/xyz share one series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.HTTPStarted()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
