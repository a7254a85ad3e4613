// Package errors maps service failures onto transport status codes.
package errors

import (
	"fmt"
	"net/http"

	"github.com/voicecart/voicecart/plugin/assistant"
)

// ErrorCode represents a specific error type for API operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeSessionClosed indicates the conversation session is gone.
	ErrCodeSessionClosed ErrorCode = "SESSION_CLOSED"
	// ErrCodeInternal indicates an unexpected server failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// APIError is a structured error carried to the HTTP layer.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the code onto an HTTP status.
func (e *APIError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeSessionClosed:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// FromAssistant converts an assistant error into an API error.
func FromAssistant(err error) *APIError {
	switch {
	case assistant.IsCode(err, assistant.ErrCodeEmptyInput):
		return &APIError{Code: ErrCodeInvalidArgument, Message: "text is empty", Cause: err}
	case assistant.IsCode(err, assistant.ErrCodeSessionClosed):
		return &APIError{Code: ErrCodeSessionClosed, Message: "session is closed", Cause: err}
	default:
		return Internal("assistant failure", err)
	}
}
