package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds IDs taken from the request header. An ID the
// client controls must not grow span attributes without limit.
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "storeadmin-backend",
		Enabled:     true,
	}
}

// Tracing returns tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin so every request gets a server span named
// "METHOD route_pattern", then tags the span with the request ID so traces
// correlate with the structured logs and the X-Request-ID echoed to clients.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passthrough
	}

	otel := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otel(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := getRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
	}
}

// getRequestID prefers the ID set by the RequestID middleware and falls back
// to the raw header, truncated to MaxRequestIDLength.
func getRequestID(c *gin.Context) string {
	if value, exists := c.Get("request_id"); exists {
		if id, ok := value.(string); ok && id != "" {
			return id
		}
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		headerID = headerID[:MaxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker flags the server span as failed when the response status
// is 4xx or 5xx. Must run after the Tracing middleware so the span exists.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, statusMessage(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func statusMessage(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Server Error"
	case status == http.StatusNotFound:
		return "Not Found"
	case status == http.StatusTooManyRequests:
		return "Rate Limited"
	default:
		return "Client Error"
	}
}
