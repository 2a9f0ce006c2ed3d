package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pantryfresh/backend/internal/infrastructure/telemetry"
)

// ProfilingLabels tags CPU samples taken while serving a request with the
// matched route and method.
func ProfilingLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		labels := telemetry.HTTPRequestLabels(c.FullPath(), c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
