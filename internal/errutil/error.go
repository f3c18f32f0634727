// Package errutil defines the error taxonomy shared by the validation layer,
// the repositories and the HTTP boundary.
package errutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindMissingField  Kind = "missing_field"
	KindInvalidFormat Kind = "invalid_format"
	KindNotFound      Kind = "not_found"
	KindFileType      Kind = "file_type"
	KindFileSize      Kind = "file_size"
	KindConflict      Kind = "conflict"
	KindStorage       Kind = "storage"
)

// Error is the structured error returned by every layer below the router.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
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

type Option func(*Error)

// WithField records which input field caused the error.
func WithField(field string) Option {
	return func(e *Error) { e.Field = field }
}

// WithErr attaches an underlying cause.
func WithErr(err error) Option {
	return func(e *Error) { e.Err = err }
}

func New(kind Kind, message string, opts ...Option) *Error {
	e := &Error{Kind: kind, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Validation(msg string, opts ...Option) error {
	return New(KindValidation, msg, opts...)
}

func MissingField(field string) error {
	return New(KindMissingField, "Missing required field: "+field, WithField(field))
}

func InvalidFormat(msg string, opts ...Option) error {
	return New(KindInvalidFormat, msg, opts...)
}

func NotFound(msg string) error {
	return New(KindNotFound, msg)
}

func FileType(msg string) error {
	return New(KindFileType, msg)
}

func FileSize(msg string) error {
	return New(KindFileSize, msg)
}

func Conflict(msg string, err error) error {
	return New(KindConflict, msg, WithErr(err))
}

func Storage(msg string, err error) error {
	return New(KindStorage, msg, WithErr(err))
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindStorage for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindStorage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// HTTPStatus maps a kind onto its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindMissingField, KindInvalidFormat, KindFileType, KindFileSize:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
