package middleware

import (
	"github.com/erp/client/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Metrics records every request. Calls served by the mock bridge have no
// gin route and share the "mock" label.
func Metrics(m *telemetry.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.Begin(c.Request.Method)
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "mock"
		}
		done(route, c.Writer.Status())
	}
}
