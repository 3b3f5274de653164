package middleware

import (
	"game_store/internal/metrics" // Prometheus collectors

	"github.com/gin-gonic/gin" // Gin web framework
)

// Metrics records request counts and latency by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted()                        // Start the latency timer
		c.Next()                                                // Process request
		done(c.Request.Method, c.FullPath(), c.Writer.Status()) // Record by route template
	}
}
