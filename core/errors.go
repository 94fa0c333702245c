package core

import (
	goerrors "errors"

	"github.com/pkg/errors"
)

// ErrStoreUnavailable signals that the persistence layer could not be
// reached. Repositories wrap transport/timeout failures with it so callers
// can tell a server fault from a domain error.
var ErrStoreUnavailable = goerrors.New("store unavailable")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return goerrors.As(err, &vErr)
}

// PermissionError is returned when an identity is rejected for the
// requested scope, before any side effect.
type PermissionError struct {
	msg string
}

func NewPermissionError(msg string) error {
	return &PermissionError{msg: msg}
}

func (err PermissionError) Error() string {
	return err.msg
}

func IsPermissionDenied(err error) bool {
	var pErr *PermissionError
	return goerrors.As(err, &pErr)
}

func IsStoreUnavailable(err error) bool {
	return goerrors.Is(errors.Cause(err), ErrStoreUnavailable)
}
