// Package apperr defines the error taxonomy shared by services and the HTTP layer.
//
// Services return *Error values for every expected failure (missing entity,
// validation, conflict, permission). The HTTP error boundary maps the Kind to a
// status code and renders Msg. Anything that is not an *Error is treated as an
// unexpected internal failure and its text is never shown to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed, user-presentable failure.
type Error struct {
	Kind Kind
	Msg  string // Human-readable, safe to show to clients
	Err  error  // Optional cause, kept for logs only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind: errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is. They carry no message and match any error of the same kind.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure. msg is what the caller's log line says;
// clients only ever see a generic message.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Msg
	}
	return "the server encountered a problem and could not process your request"
}
