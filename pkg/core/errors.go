package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSampleKey is returned when a wide table does not start with
	// the Sample_Name key column.
	ErrMissingSampleKey = errors.New("missing sample name column")

	// ErrDuplicateSample is returned when a sample name occurs more than once.
	ErrDuplicateSample = errors.New("duplicate sample name")
)

// ValidationError represents a structural problem found in an input table.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
