// Package apperr is the single error type that crosses the HTTP boundary.
// Store, broker and proxy failures are translated into an *Error before a
// handler sees them.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "CONFLICT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindUsage        Kind = "USAGE_ERROR"
	KindTransport    Kind = "TRANSPORT_ERROR"
	KindInternal     Kind = "INTERNAL_ERROR"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

type Error struct {
	Kind    Kind         `json:"code"`
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

func Validation(message string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Details: details}
}

// Conflict reports an integrity violation. The message must already be
// sanitized; it is shown to the client as is.
func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Status: http.StatusBadRequest, Message: message, Err: err}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func Usage(err error) *Error {
	return &Error{Kind: KindUsage, Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

func Transport(message string, err error) *Error {
	return &Error{Kind: KindTransport, Status: http.StatusBadGateway, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// From wraps any error that is not already an *Error as an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal("Internal server error", err)
}
