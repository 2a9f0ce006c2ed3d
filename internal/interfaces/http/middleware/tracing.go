package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing starts a server span per request through otelgin. Health checks
// are not traced.
func Tracing(serviceName string, opts ...otelgin.Option) gin.HandlerFunc {
	opts = append([]otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/api/v1/health"
		}),
	}, opts...)
	return otelgin.Middleware(serviceName, opts...)
}

// SpanEnricher annotates the active span with the request id and caller and
// marks it failed on 5xx. Register it after RequestID and Tracing.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := RequestIDFrom(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if claims := GetClaims(c); claims != nil {
			span.SetAttributes(
				attribute.String("enduser.id", claims.UserID),
				attribute.String("enduser.role", claims.Role),
			)
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if len(c.Errors) > 0 {
			span.SetAttributes(attribute.String("gin.errors", c.Errors.String()))
		}
	}
}
