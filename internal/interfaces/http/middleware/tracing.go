package middleware

import (
	"github.com/bilemo/api/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	Enabled        bool
	ServiceName    string
	TracerProvider trace.TracerProvider // nil means the global provider
}

// Tracing returns the server span middleware followed by SpanAttributes.
// Health probes are not traced. A disabled config returns no handlers.
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgin.Option{
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return c.Request.URL.Path != "/health"
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return []gin.HandlerFunc{otelgin.Middleware(cfg.ServiceName, opts...), SpanAttributes()}
}

// SpanAttributes tags the server span with the request id and, once the JWT
// middleware has run, the authenticated client.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := c.GetString(logger.GinRequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if clientID := GetJWTClientID(c); clientID != 0 {
			span.SetAttributes(attribute.Int64("client.id", clientID))
		}
	}
}
