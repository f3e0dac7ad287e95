// Package apperr defines the error taxonomy shared by every HTTP endpoint.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	// KindInternal is an unexpected store or infrastructure failure.
	KindInternal Kind = iota
	// KindValidation is missing or malformed input.
	KindValidation
	// KindConflict is a uniqueness violation (duplicate favorite, duplicate user).
	KindConflict
	// KindUnauthorized is a missing, invalid or expired credential.
	KindUnauthorized
	// KindNotFound is an absent target record.
	KindNotFound
	// KindTooManyRequests is a rate-limit rejection.
	KindTooManyRequests
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Status maps the kind to its HTTP status code.
// Conflict is reported as 400, matching the public API contract.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an error carrying a Kind and a caller-safe message.
// Err holds the underlying cause and is only exposed in development mode.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Conflict returns a KindConflict error.
func Conflict(msg string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: cause}
}

// Unauthorized returns a KindUnauthorized error.
func Unauthorized(msg string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg, Err: cause}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string, cause error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: cause}
}

// TooManyRequests returns a KindTooManyRequests error.
func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}

// Internal wraps an unexpected failure. The public message is always generic.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgServerError, Err: cause}
}

// MsgServerError is the generic message for KindInternal.
const MsgServerError = "Server Error"

// From converts any error into an *Error. Unknown errors become KindInternal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
