// Package errs defines the error taxonomy shared by the registry, policy,
// store and lookup layers.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when a category key has no registry entry
	// or is not advertised through TagInformation.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNotFound is returned when an entity is absent or soft-deleted.
	ErrNotFound = errors.New("entity not found")

	// ErrForbidden is returned when the caller lacks the capability for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed or missing fields on create/update.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is returned when the underlying store fails.
	ErrPersistence = errors.New("persistence failure")
)

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid creates a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failure of the backing store. The wrapped error
// is kept for server-side logging and never shown to callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// Persistence wraps err as a PersistenceError unless it already belongs to
// the taxonomy, in which case it is returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if Known(err) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// Known reports whether err belongs to the taxonomy.
func Known(err error) bool {
	return errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrPersistence)
}
