package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

const HeaderAdminKey = "X-Admin-Key"

// AdminMiddleware guards operator endpoints. With no admin key configured
// the endpoints are reported as missing.
func AdminMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg == nil || cfg.Server.AdminKey == "" {
			Abort(c, apperrors.New(apperrors.ErrNotFound, "admin endpoints disabled", nil))
			return
		}
		got := c.GetHeader(HeaderAdminKey)
		if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.Server.AdminKey)) != 1 {
			Abort(c, apperrors.New(apperrors.ErrUnauthorized, "invalid admin key", nil))
			return
		}
		c.Next()
	}
}
