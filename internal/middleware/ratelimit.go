package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/pkg/metrics"
	"github.com/wheelgate/wheelgate/internal/service"
)

// RateLimitMiddleware must run after SessionMiddleware.
func RateLimitMiddleware(sm *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetString(ContextSessionKey)
		if id == "" {
			c.Next()
			return
		}

		limiter := sm.GetLimiter(id)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			metrics.BetRejects.WithLabelValues("rate_limited").Inc()
			c.Header("Retry-After", "1")
			Abort(c, apperrors.New(apperrors.ErrRateLimited, "rate limit exceeded", nil))
			return
		}

		c.Next()
	}
}
