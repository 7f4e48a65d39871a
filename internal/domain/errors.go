package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("access forbidden: you don't own this resource")
	ErrInvalidID = errors.New("invalid id format")

	// ErrNothingToCreate is returned when a plan yields no concrete workouts.
	// It is a distinct condition, not a store failure.
	ErrNothingToCreate = errors.New("no workouts to create")
)

// notFoundError is a resource specific not-found condition that also
// matches ErrNotFound under errors.Is
type notFoundError struct {
	resource string
}

func (e *notFoundError) Error() string {
	return e.resource + " not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func newNotFoundError(resource string) error {
	return &notFoundError{resource: resource}
}

// ValidationError reports malformed or missing input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// UpstreamStoreError wraps a failure returned by the data store.
// The store's message is passed through verbatim.
type UpstreamStoreError struct {
	Op  string
	Err error
}

func (e *UpstreamStoreError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamStoreError) Unwrap() error {
	return e.Err
}

// StoreError wraps err as an UpstreamStoreError unless it is nil or already a
// domain condition the caller should branch on.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) || errors.Is(err, ErrForbidden) {
		return err
	}
	var upstream *UpstreamStoreError
	if errors.As(err, &upstream) {
		return err
	}
	return &UpstreamStoreError{Op: op, Err: err}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
