package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
)

const (
	HeaderRequestID   = "X-Request-ID"
	ContextRequestKey = "request_id"
)

// RequestLogMiddleware tags every request with an id and writes one access
// log line once the handler chain returns.
func RequestLogMiddleware() gin.HandlerFunc {
	log := logger.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Header(HeaderRequestID, reqID)
		c.Set(ContextRequestKey, reqID)

		c.Next()

		fields := []any{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id := c.GetString(ContextSessionKey); id != "" {
			fields = append(fields, "session_id", id)
		}
		log.Info("request", fields...)
	}
}
