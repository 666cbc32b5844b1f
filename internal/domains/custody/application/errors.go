// Package application implements the custody use cases. It is the only place
// allowed to combine validation with persistence.
package application

import (
	"errors"
	"fmt"
)

// Failure classes surfaced by the orchestrator. Storage failures from the
// repository are passed through unchanged and match none of these.
var (
	// ErrValidation marks a request that violated a structural rule.
	ErrValidation = errors.New("invalid custody service input")
	// ErrReference marks a custodian or currency that does not exist.
	ErrReference = errors.New("referenced record not found")
	// ErrConflict marks a name collision or a deletion blocked by positions.
	ErrConflict = errors.New("custody service conflict")
)

// ValidationError wraps the first violated rule.
type ValidationError struct {
	Rule error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrValidation, e.Rule)
}

func (e *ValidationError) Unwrap() []error { return []error{ErrValidation, e.Rule} }

// ReferenceError names the lookup that failed to resolve.
type ReferenceError struct {
	Entity string
	Value  string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v: %s %q", ErrReference, e.Entity, e.Value)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

// ConflictError carries enough detail for the caller to act, including the
// active position count when a deletion was blocked.
type ConflictError struct {
	Reason          string
	ActivePositions int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
