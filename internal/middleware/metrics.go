package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/metrics"
)

// Metrics labels requests by route template so path parameters do not blow up
// the label space.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(path, c.Request.Method, c.Writer.Status(), start)
	}
}
