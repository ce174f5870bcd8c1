// Package apperr classifies failures crossing the service/handler boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of an application error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindStore
	KindNotAuthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	case KindNotAuthorized:
		return "not_authorized"
	default:
		return "unknown"
	}
}

// Error carries a user-facing Message and the underlying cause.
// Message is safe to show to clients; Err is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, apperr.Conflict("", nil)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Auth(msg string, err error) *Error { return &Error{Kind: KindAuth, Message: msg, Err: err} }

func Conflict(msg string, err error) *Error { return &Error{Kind: KindConflict, Message: msg, Err: err} }

func Store(msg string, err error) *Error { return &Error{Kind: KindStore, Message: msg, Err: err} }

func NotAuthorized(msg string) *Error { return &Error{Kind: KindNotAuthorized, Message: msg} }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of err, or fallback when err
// carries none.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
