package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
	"github.com/wheelgate/wheelgate/internal/service"
)

const (
	HeaderSessionID   = "X-Session-ID"
	ContextSessionKey = "session_id"
	ContextTableKey   = "table"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SessionMiddleware resolves the X-Session-ID header to a table, opening a
// new session on first use. Requests without the header share the default session.
func SessionMiddleware(sm *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderSessionID)
		if id == "" {
			id = service.DefaultSessionID
		}
		if !sessionIDPattern.MatchString(id) {
			Abort(c, apperrors.NewInvalidRequest("X-Session-ID must be 1-64 characters of [A-Za-z0-9_-]"))
			return
		}

		c.Set(ContextSessionKey, id)
		c.Set(ContextTableKey, sm.Get(id))
		c.Next()
	}
}

// TableFrom returns the table resolved by SessionMiddleware.
func TableFrom(c *gin.Context) (*service.Table, bool) {
	v, ok := c.Get(ContextTableKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(*service.Table)
	return t, ok
}
