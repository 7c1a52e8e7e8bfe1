package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{NewInvalidAmount("x"), http.StatusBadRequest},
		{NewInvalidRequest("x"), http.StatusBadRequest},
		{NewInsufficientFunds("x"), http.StatusPaymentRequired},
		{New(ErrAlreadySpinning, "x", nil), http.StatusConflict},
		{New(ErrAutoBetRunning, "x", nil), http.StatusConflict},
		{New(ErrRateLimited, "x", nil), http.StatusTooManyRequests},
		{New(ErrNotFound, "x", nil), http.StatusNotFound},
		{New(ErrUnauthorized, "x", nil), http.StatusUnauthorized},
		{NewInvalidConfiguration("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.HTTPStatus, string(tt.err.Type))
	}
}

func TestWrapAndIs(t *testing.T) {
	assert.Nil(t, Wrap(nil))

	base := NewInsufficientFunds("no money")
	wrapped := fmt.Errorf("placing bet: %w", base)
	assert.Same(t, base, Wrap(wrapped))
	assert.True(t, Is(wrapped, ErrInsufficientFunds))
	assert.False(t, Is(wrapped, ErrInvalidAmount))

	plain := errors.New("boom")
	internal := Wrap(plain)
	assert.Equal(t, ErrInternal, internal.Type)
	assert.ErrorIs(t, internal, plain)
	assert.False(t, Is(plain, ErrInternal))
}
