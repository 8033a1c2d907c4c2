package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found, or that
// it exists in a household the caller is not a member of (existence is obscured).
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the role or membership required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the request conflicts with existing state, e.g. an
// idempotency key reused with a different payload.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected internal failure, including a broken
// bookkeeping invariant. Never silently swallowed; always logged at Error level.
var ErrInternal = errors.New("internal error")

// AppError wraps a low-level error with an HTTP-ish status code and a message
// safe to surface to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
