package packaging

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports geometry or weight that cannot be boxed.
type InvalidInputError struct {
	Field string
	Value any
	// Reason defaults to "must be positive".
	Reason string
}

func (e *InvalidInputError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be positive"
	}
	return fmt.Sprintf("invalid input: %s %s, got %v", e.Field, reason, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}
