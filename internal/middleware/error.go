package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only handle if there are errors
		if len(c.Errors) == 0 {
			return
		}

		// Get the last error
		err := c.Errors.Last().Err
		var appErr *apperrors.AppError

		if !errors.As(err, &appErr) {
			// Unknown error, wrap as Internal
			appErr = apperrors.New(apperrors.ErrInternal, err.Error(), err)
		}

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"code", appErr.Type,
			"session_id", c.GetString(ContextSessionKey),
			"client_ip", c.ClientIP(),
		}

		if appErr.HTTPStatus >= 500 {
			logger.LogError(c.Request.Context(), appErr, "Internal Server Error", logFields...)
		} else {
			logger.Warn(appErr.Message, logFields...)
		}

		// handlers that already rendered the error only need it logged
		if c.Writer.Written() {
			return
		}
		c.JSON(appErr.HTTPStatus, appErr)
	}
}

// Abort records err for ErrorHandler and renders it immediately so that
// wrapping middleware (idempotency capture) sees the final response.
func Abort(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	_ = c.Error(appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}
