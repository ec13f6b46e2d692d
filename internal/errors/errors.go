// Package errors defines the domain error type shared by services, repositories
// and handlers. Every error that crosses a package boundary carries a Kind so the
// transport layer can map it to a response without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindProvider
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code, so wrapped
// copies of a sentinel still match it.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying err as its cause.
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage returns a copy of e with a more specific message.
func (e *DomainError) WithMessage(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Err: e.Err}
}

func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *DomainError {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *DomainError {
	return New(KindNotFound, code, message)
}

func Conflict(code, message string) *DomainError {
	return New(KindConflict, code, message)
}

func Unauthorized(code, message string) *DomainError {
	return New(KindUnauthorized, code, message)
}

func Forbidden(code, message string) *DomainError {
	return New(KindForbidden, code, message)
}

// ErrProvider is the generic storage/network failure.
var ErrProvider = New(KindProvider, "PROVIDER_ERROR", "storage provider failure")

// Provider wraps an infrastructure error (database, cache) as a provider failure.
func Provider(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) {
		return de
	}
	return ErrProvider.Wrap(err)
}

// KindOf returns the kind of the first DomainError in err's chain.
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of the first DomainError in err's chain, or "INTERNAL".
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}

// Is and As re-export the standard helpers so callers importing this package
// under its usual alias do not also need the standard library one.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }
