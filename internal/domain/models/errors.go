package models

import (
	"errors"
	"strings"
)

// ErrAllDownstreamFailed is returned by the dispatcher when the
// require_downstream_success policy is on and not a single fan-out call
// succeeded.
var ErrAllDownstreamFailed = errors.New("all downstream dispatches failed")

// ValidationError rejects a signal before any downstream call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a validation error for the named fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
