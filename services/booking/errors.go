package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotUnavailable is returned when an active booking already occupies
	// the requested window. It is an expected business outcome, surfaced to
	// the caller for re-selection.
	ErrSlotUnavailable = errors.New("requested time slot is unavailable")

	// ErrNotFound is returned when a booking ID does not resolve.
	ErrNotFound = errors.New("booking not found")

	// ErrUnauthorized is returned for an invalid or expired management
	// token. Callers surface it as a generic auth failure without revealing
	// whether the booking exists.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError constructs a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
