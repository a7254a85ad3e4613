package assistant

import (
	"fmt"
)

// ErrorCode classifies assistant failures for callers that need to map
// them onto transport status codes.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates the command was empty after normalization.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeSessionClosed indicates the session no longer accepts turns.
	ErrCodeSessionClosed ErrorCode = "SESSION_CLOSED"
	// ErrCodeCollaboratorFailed indicates a catalog or cart call failed.
	ErrCodeCollaboratorFailed ErrorCode = "COLLABORATOR_FAILED"
	// ErrCodeTimeout indicates a turn exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Error is a structured assistant failure.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// EmptyInput creates an empty input error.
func EmptyInput() *Error {
	return &Error{Code: ErrCodeEmptyInput, Message: "command is empty"}
}

// SessionClosed creates a session closed error.
func SessionClosed() *Error {
	return &Error{Code: ErrCodeSessionClosed, Message: "session is closed"}
}

// CollaboratorFailed wraps a catalog or cart failure.
func CollaboratorFailed(msg string, cause error) *Error {
	return &Error{Code: ErrCodeCollaboratorFailed, Message: msg, Cause: cause}
}

// Timeout creates a turn deadline error.
func Timeout(cause error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: "turn deadline exceeded", Cause: cause}
}

// IsCode checks whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
