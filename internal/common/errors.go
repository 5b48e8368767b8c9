// Package common defines shared constants and sentinel errors used across
// the repository, service and HTTP layers. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Error kinds. Each kind maps to exactly one HTTP status at the edge.
	ErrorBadRequest      = errors.New("bad request")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")
	ErrorNotFound        = errors.New("not found")
	ErrorConflict        = errors.New("conflict")
	ErrorTooManyRequests = errors.New("too many requests")
	ErrorInternal        = errors.New("internal error")

	// Token errors. All of them are ErrorUnauthorized.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrTokenReused  = fmt.Errorf("%w: refresh token is expired or used", ErrorUnauthorized)
)

// Error is a classified service error. Kind is one of the sentinels above,
// Message is safe to show to API clients, Err is the optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError returns an Error of the given kind with a client-facing message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError is NewError with an underlying cause attached.
func WrapError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// PublicMessage returns the message that may be sent to API clients.
// Errors that are not *Error produce an empty string.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
