// Package apperr defines the business error taxonomy shared by every engine.
// Domain packages declare their own sentinel errors with New so callers can match
// either the precise sentinel or its kind:
//
//	errors.Is(err, leave.ErrRequestNotFound) // precise
//	errors.Is(err, apperr.ErrNotFound)       // any not-found
package apperr

import (
	"errors"

	"github.com/cmlabs-hris/hris-payroll/internal/pkg/validator"
)

type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindForbidden    Kind = "forbidden"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
)

// Error is a business rule violation. Infrastructure failures are never wrapped in it.
type Error struct {
	Kind    Kind
	Message string

	// Err is the underlying detail, e.g. the field errors of an invalid input.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches kind sentinels, so every NotFound error satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e == t
}

// Kind sentinels; they carry no message.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrInvalidState = &Error{Kind: KindInvalidState}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
	ErrConflict     = &Error{Kind: KindConflict}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Invalid reports field validation failures as an invalid_input error. The field
// errors stay reachable through errors.As. It returns nil when errs is empty.
func Invalid(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{Kind: KindInvalidInput, Message: errs.Error(), Err: errs}
}

// KindOf reports the business kind of err. ok is false for infrastructure errors.
func KindOf(err error) (kind Kind, ok bool) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return KindInvalidInput, true
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}
