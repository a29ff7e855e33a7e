package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing row for a primary-key lookup.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition signals an issue status change outside the allowed graph.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError reports missing or malformed operator input. Operations
// abort before any persistence call when one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// DelegateError reports a failed or unparseable external analysis call.
type DelegateError struct {
	Op  string
	Err error
}

func (e *DelegateError) Error() string { return fmt.Sprintf("delegate %s: %v", e.Op, e.Err) }
func (e *DelegateError) Unwrap() error { return e.Err }

// IsDelegate reports whether err is (or wraps) a DelegateError.
func IsDelegate(err error) bool {
	var d *DelegateError
	return errors.As(err, &d)
}

// PersistenceError reports a failed store mutation. For multi-step operations
// already-completed steps are not rolled back; the error is still surfaced.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persist %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }
