// Package apperr is the error taxonomy shared by every service. Services
// return *Error values; the request layer turns them into HTTP responses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateKey
	KindNotFound
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindDuplicateKey:
		return "DuplicateKey"
	case KindNotFound:
		return "NotFound"
	case KindIntegrity:
		return "IntegrityViolation"
	default:
		return "Internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // field -> message, validation only
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind against the bare sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrDuplicateKey = &Error{Kind: KindDuplicateKey}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrIntegrity    = &Error{Kind: KindIntegrity}
)

func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Invalid is a single-field validation error.
func Invalid(field, msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: map[string]string{field: msg}}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicateKey, Message: fmt.Sprintf(format, args...)}
}

func Integrity(format string, args ...any) *Error {
	return &Error{Kind: KindIntegrity, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
