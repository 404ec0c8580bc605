package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"expense-categorizer-api/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route
const unmatchedRoute = "unmatched"

// Metrics records request counts and latencies per route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTPRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
