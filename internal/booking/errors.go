package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict means the slot was taken between the availability read and
	// the write. Retryable: the caller re-fetches availability and re-selects.
	ErrConflict = errors.New("slot already booked")

	// ErrNotFound covers both "no such booking" and "wrong access code";
	// the two are deliberately indistinguishable.
	ErrNotFound = errors.New("booking not found")
)

// ValidationError reports every violated field, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, reason))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
