package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// maxNameLength bounds layer names coming from documents and HTTP requests.
const maxNameLength = 128

// ValidateLayerName validates a layer name taken from external input.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "layer name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "layer name contains invalid characters: %q", name)
		}
	}
	return nil
}

// ValidateColor checks that s is a CSS hex color (#RGB or #RRGGBB).
func ValidateColor(s string) error {
	if _, err := ParseColor(s); err != nil {
		return err
	}
	return nil
}

// ParseColor parses a CSS hex color (#RGB or #RRGGBB).
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return colorful.Color{}, Wrap(ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return c, nil
}

// ValidatePositive checks that a geometry value is a finite number greater than zero.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidGeometry, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that a geometry value is a finite number of at least zero.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return New(ErrCodeInvalidGeometry, "%s must not be negative, got %v", field, v)
	}
	return nil
}
