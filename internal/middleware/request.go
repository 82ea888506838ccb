package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"topodash/internal/apiclient"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or makes one, echoes it on the
// response and hands it to backend calls through the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(apiclient.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// Logger writes one line per request.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"request_id", c.Writer.Header().Get(RequestIDHeader),
		}
		switch {
		case status >= 500:
			log.Error("[HTTP] request", attrs...)
		case status >= 400:
			log.Warn("[HTTP] request", attrs...)
		default:
			log.Debug("[HTTP] request", attrs...)
		}
	}
}
