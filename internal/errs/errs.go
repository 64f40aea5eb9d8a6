// Package errs holds the application error taxonomy shared by the policy,
// service and HTTP layers.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an application error. The HTTP layer maps each kind to a
// status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalid
	KindUnauthorized
	KindInactive
	KindForbidden
	KindNotFound
	KindConflict
	KindNotInRelation
	KindReferential
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindInactive:
		return "inactive"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindNotInRelation:
		return "not_in_relation"
	case KindReferential:
		return "referential_integrity"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is an application error carrying a user-facing message and, for
// logging, the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so errors.Is(err, errs.ErrNotFound) matches any
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrInternal      = &Error{Kind: KindInternal}
	ErrInvalid       = &Error{Kind: KindInvalid}
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrInactive      = &Error{Kind: KindInactive}
	ErrForbidden     = &Error{Kind: KindForbidden}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrConflict      = &Error{Kind: KindConflict}
	ErrNotInRelation = &Error{Kind: KindNotInRelation}
	ErrReferential   = &Error{Kind: KindReferential}
	ErrUnavailable   = &Error{Kind: KindUnavailable}
)

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) *Error { return newf(KindInvalid, format, args...) }
func Unauthorized(format string, args ...any) *Error { return newf(KindUnauthorized, format, args...) }
func Inactive(format string, args ...any) *Error { return newf(KindInactive, format, args...) }
func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }
func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }
func Conflict(format string, args ...any) *Error { return newf(KindConflict, format, args...) }
func NotInRelation(format string, args ...any) *Error {
	return newf(KindNotInRelation, format, args...)
}
func Referential(format string, args ...any) *Error { return newf(KindReferential, format, args...) }
func Unavailable(format string, args ...any) *Error { return newf(KindUnavailable, format, args...) }

// Internal wraps an unexpected failure. The message shown to clients is fixed;
// err is kept for logs.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
// for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal && e.Message != "" {
		return e.Message
	}
	return "Internal Server Error"
}
