package validate

import "fmt"

// Error is a field-scoped validation failure. The field name lets the UI
// highlight the offending input instead of showing a generic message.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NonEmpty returns a field-scoped error when value is empty.
func NonEmpty(field, value string) error {
	if value == "" {
		return &Error{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// IntRange returns a field-scoped error when value is outside [min, max].
func IntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &Error{Field: field, Reason: fmt.Sprintf("must be between %d and %d", min, max)}
	}
	return nil
}

// Positive returns a field-scoped error when value < 1.
func Positive(field string, value int) error {
	if value < 1 {
		return &Error{Field: field, Reason: "must be at least 1"}
	}
	return nil
}
