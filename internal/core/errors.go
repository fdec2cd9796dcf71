package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the request carried no usable token.
	ErrUnauthenticated = errors.New("not authorized")

	// ErrNotFound covers both missing rows and rows owned by someone else.
	ErrNotFound = errors.New("not found")

	ErrInvalidReference   = errors.New("invalid reference")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a bad or missing request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferenceError reports a foreign key that does not resolve to a row owned
// by the caller.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.ID)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}
