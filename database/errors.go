package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document does not exist in the addressed
// collection.
var ErrNotFound = errors.New("document not found")

// ValidationError marks input that was rejected before any storage access.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Invalidf builds a ValidationError from a format string.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
