package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/glowetsu/backend/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests. Requests
// that matched no route are recorded under "unmatched" to bound cardinality.
func Metrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		done := m.Start(c.Request.Context(), c.Request.Method)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(route, c.Writer.Status())
	}
}
