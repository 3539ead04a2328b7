package tax

import (
	"errors"
	"fmt"
)

// ValidationError reports an input amount the calculator refuses. Index is
// the position inside a batch, or -1 for single values.
type ValidationError struct {
	Index  int
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid salary at index %d (%s): %s", e.Index, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid amount %s: %s", e.Value, e.Reason)
}

func newValidationError(index int, value, reason string) *ValidationError {
	return &ValidationError{Index: index, Value: value, Reason: reason}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
