// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested account or movie does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique constraint violation (e.g., email taken).
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized indicates a credential mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDependency indicates the storage backend is unreachable. Fatal to the
	// request, not to the process.
	ErrDependency = errors.New("dependency unavailable")
)

// ValidationError reports a malformed or out-of-policy input field. Produced
// before any mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a field-level validation error.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
