package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity on read/update/delete.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a duplicate natural key at the storage layer.
	// Resolve-or-create paths handle it by re-fetching the winner.
	ErrConflict = errors.New("duplicate natural key")
)

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}
