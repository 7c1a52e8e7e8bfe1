package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelgate/wheelgate/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInMemIdempotencyStore_Lifecycle(t *testing.T) {
	store := NewInMemIdempotencyStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec, hit := store.GetOrLock("s:k")
	assert.False(t, hit)
	assert.Nil(t, rec)

	rec, hit = store.GetOrLock("s:k")
	require.True(t, hit)
	assert.True(t, rec.Processing)

	store.Save("s:k", http.StatusAccepted, []byte(`{}`))
	rec, hit = store.GetOrLock("s:k")
	require.True(t, hit)
	assert.False(t, rec.Processing)
	assert.Equal(t, http.StatusAccepted, rec.Status)

	now = now.Add(2 * time.Minute)
	_, hit = store.GetOrLock("s:k")
	assert.False(t, hit, "expired records are forgotten")

	store.Unlock("s:k")
	_, hit = store.GetOrLock("s:k")
	assert.False(t, hit)
}

func TestIdempotencyMiddleware_InProgressAndServerErrors(t *testing.T) {
	store := NewInMemIdempotencyStore(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(func(c *gin.Context) { c.Set(ContextSessionKey, "s1"); c.Next() })
	r.Use(IdempotencyMiddleware(store))
	r.POST("/fail", func(c *gin.Context) {
		calls++
		Abort(c, errors.New("boom"))
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/fail", nil)
		req.Header.Set(HeaderIdempotencyKey, "k")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusInternalServerError, send().Code)
	assert.Equal(t, http.StatusInternalServerError, send().Code)
	assert.Equal(t, 2, calls, "5xx responses are not replayed")

	store.GetOrLock("s1:held")
	req := httptest.NewRequest(http.MethodPost, "/fail", nil)
	req.Header.Set(HeaderIdempotencyKey, "held")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), string(apperrors.ErrRequestInProgress))
	assert.Equal(t, 2, calls)
}

func TestErrorHandler_RendersUnwrittenErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/typed", func(c *gin.Context) {
		_ = c.Error(apperrors.NewInsufficientFunds("stake 5 exceeds balance 1"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/typed", nil))
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INSUFFICIENT_FUNDS"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_ERROR"`)
}

func TestRequestLogMiddleware_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "req-42", rec.Body.String())
}
