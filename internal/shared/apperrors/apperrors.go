// Package apperrors classifies application failures into the kinds that
// transport adapters map to responses and that consumers use to decide
// whether a failure is worth retrying.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
)

// FieldViolation describes a single rejected field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a kind, a stable human-readable message and optional field detail.
type Error struct {
	Kind    error
	Message string
	Fields  []FieldViolation
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "application error"
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// New builds an error of the given kind.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an error of the given kind that keeps cause reachable through errors.Is.
func Wrap(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}

// NotFound is shorthand for New(ErrNotFound, ...).
func NotFound(format string, args ...any) *Error {
	return New(ErrNotFound, format, args...)
}

// InvalidTransition is shorthand for New(ErrInvalidTransition, ...).
func InvalidTransition(format string, args ...any) *Error {
	return New(ErrInvalidTransition, format, args...)
}

// Validation reports one or more field violations.
func Validation(fields ...FieldViolation) *Error {
	return &Error{Kind: ErrValidation, Message: ErrValidation.Error(), Fields: fields}
}

var kinds = []error{ErrNotFound, ErrInvalidTransition, ErrValidation, ErrDuplicateKey, ErrInvalidInput, ErrUnauthorized}

// KindOf returns the kind sentinel carried by err, or nil for unclassified errors.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindByName returns the kind whose Error() text is name. Used to restore a
// kind after it crossed a process boundary as a string.
func KindByName(name string) error {
	for _, kind := range kinds {
		if kind.Error() == name {
			return kind
		}
	}
	return nil
}

// IsPermanent reports whether err is a business failure that fails identically on retry.
func IsPermanent(err error) bool {
	return err != nil && KindOf(err) != nil
}

// FieldsOf returns the field violations carried by err, if any.
func FieldsOf(err error) []FieldViolation {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
