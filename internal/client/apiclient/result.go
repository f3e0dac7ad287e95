package apiclient

import (
	"fmt"
	"net/http"

	"country_explorer/internal/shared/apperr"
)

// ErrorKind は失敗の種別です。呼び出し側はこの値で分岐します。
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
	KindRateLimited
	KindServer
	KindNetwork
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is a failed API call.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Fields  []apperr.FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Result holds either a value or a typed error.
type Result[T any] struct {
	Value T
	Err   *Error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Kind returns KindNone on success.
func (r Result[T]) Kind() ErrorKind {
	if r.Err == nil {
		return KindNone
	}
	return r.Err.Kind
}

func ok[T any](v T) Result[T] { return Result[T]{Value: v} }

func fail[T any](e *Error) Result[T] { return Result[T]{Err: e} }

// kindFor はステータスコードとエンベロープの code から種別を決めます。
// 400 は validation と conflict の両方に使われるため code で区別します。
func kindFor(status int, code string) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		if code == apperr.KindConflict.String() {
			return KindConflict
		}
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= 500 {
		return KindServer
	}
	switch code {
	case apperr.KindConflict.String():
		return KindConflict
	case apperr.KindValidation.String():
		return KindValidation
	}
	return KindServer
}
