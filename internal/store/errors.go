package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookup and state failures. Callers at the boundary
// map these to externally visible responses; nothing in the store retries.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrStepNotFound     = errors.New("micro-step not found")
	ErrAlreadyCompleted = errors.New("task already completed")
)

// ValidationError reports a rejected command input. The command performed
// no mutation when one of these is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
