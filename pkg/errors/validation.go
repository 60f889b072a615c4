package errors

import (
	"math"
	"unicode"
)

// maxLabelLength bounds vertex labels accepted from files and HTTP requests.
const maxLabelLength = 256

// ValidateFinite checks that a named numeric parameter is a finite number.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidArgument, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a named numeric parameter is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidArgument, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateLabel validates a vertex label supplied by an external caller.
//
// Labels are display-only, so the rules are simple:
//   - Maximum length of 256 bytes
//   - No control characters (newlines would break DOT output)
func ValidateLabel(label string) error {
	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidArgument, "label too long (max %d characters)", maxLabelLength)
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "label contains invalid control characters")
		}
	}
	return nil
}
