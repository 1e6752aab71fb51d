// Package apperr defines the error kinds surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindForbidden      Kind = "forbidden"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindInternal       Kind = "internal"
)

// Error is a classified error. Sentinels are declared with New and refined
// per call site with Errorf, which keeps errors.Is working against the sentinel.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf returns an error of the sentinel's kind with a more specific message.
func Errorf(sentinel *Error, format string, args ...any) error {
	return &Error{Kind: sentinel.Kind, Message: fmt.Sprintf(format, args...), err: sentinel}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns a caller-safe message. Unclassified errors never leak detail.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
