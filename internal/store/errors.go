// Package store defines the persistence contract for the PromptKeep server
// and the error and pagination types shared by its implementations.
package store

import (
	"fmt"
	"net/http"
)

// Error is a store error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)

	// sentinel points at the package-level error this one was derived from,
	// so errors.Is still matches after WithMessage or WithCause.
	sentinel *Error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the error it was derived from, if any.
func (e *Error) Is(target error) bool {
	return target == e || (e.sentinel != nil && target == error(e.sentinel))
}

func (e *Error) root() *Error {
	if e.sentinel != nil {
		return e.sentinel
	}
	return e
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:     e.Code,
		Message:  msg,
		Err:      e.Err,
		sentinel: e.root(),
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:     e.Code,
		Message:  e.Message,
		Err:      err,
		sentinel: e.root(),
	}
}

// Sentinel errors. NotFound deliberately covers both "absent" and "owned by
// someone else" so callers cannot probe for other tenants' resources.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrDuplicateName = &Error{
		Code:    http.StatusBadRequest,
		Message: "a resource with this name already exists",
	}

	ErrImmutable = &Error{
		Code:    http.StatusBadRequest,
		Message: "this resource cannot be modified",
	}

	ErrEmailExists = &Error{
		Code:    http.StatusConflict,
		Message: "email already in use",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)
