package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrInvalidAmount        ErrorType = "INVALID_AMOUNT"
	ErrInsufficientFunds    ErrorType = "INSUFFICIENT_FUNDS"
	ErrAlreadySpinning      ErrorType = "ALREADY_SPINNING"
	ErrInvalidConfiguration ErrorType = "INVALID_CONFIGURATION"
	ErrAutoBetRunning       ErrorType = "AUTOBET_RUNNING"
	ErrInvalidRequest       ErrorType = "INVALID_REQUEST"
	ErrRateLimited          ErrorType = "RATE_LIMITED"
	ErrNotFound             ErrorType = "NOT_FOUND"
	ErrRequestInProgress    ErrorType = "REQUEST_IN_PROGRESS"
	ErrUnauthorized         ErrorType = "UNAUTHORIZED"
	ErrInternal             ErrorType = "INTERNAL_ERROR"
)

// AppError is the standard error struct for the application
type AppError struct {
	Type       ErrorType `json:"code"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errType ErrorType, msg string, cause error) *AppError {
	return &AppError{
		Type:       errType,
		Message:    msg,
		Cause:      cause,
		HTTPStatus: mapTypeToStatus(errType),
		Suggestion: mapTypeToSuggestion(errType),
	}
}

func NewInvalidAmount(msg string) *AppError {
	return New(ErrInvalidAmount, msg, nil)
}

func NewInsufficientFunds(msg string) *AppError {
	return New(ErrInsufficientFunds, msg, nil)
}

func NewInvalidRequest(msg string) *AppError {
	return New(ErrInvalidRequest, msg, nil)
}

func NewInvalidConfiguration(msg string) *AppError {
	return New(ErrInvalidConfiguration, msg, nil)
}

func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(ErrInternal, err.Error(), err)
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

func mapTypeToStatus(t ErrorType) int {
	switch t {
	case ErrInvalidAmount, ErrInvalidRequest:
		return http.StatusBadRequest
	case ErrInsufficientFunds:
		return http.StatusPaymentRequired
	case ErrAlreadySpinning, ErrAutoBetRunning, ErrRequestInProgress:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func mapTypeToSuggestion(t ErrorType) string {
	switch t {
	case ErrInsufficientFunds:
		return "Lower the stake or deposit funds."
	case ErrAlreadySpinning:
		return "Wait for the current spin to settle."
	case ErrAutoBetRunning:
		return "Cancel the running autobet first."
	case ErrRateLimited:
		return "Retry the request."
	case ErrRequestInProgress:
		return "Wait for the original request to complete, then retry with the same key."
	case ErrInvalidConfiguration:
		return "Fix the multiplier tables in the config file."
	default:
		return ""
	}
}
