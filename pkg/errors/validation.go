package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// maxDimensionLength bounds the textual length of a single dimension entry.
const maxDimensionLength = 32

// ParseDimension parses a single operator-entered box dimension.
//
// The accepted grammar is deliberately narrow:
//   - One or more ASCII digits ("12")
//   - Optionally followed by exactly one decimal point and one or more digits ("12.5")
//
// Signs, exponents, leading or trailing decimal points and whitespace inside the
// number are rejected. Surrounding whitespace is trimmed. The parsed value must be
// strictly positive.
func ParseDimension(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidDimension, "dimension cannot be empty")
	}
	if len(s) > maxDimensionLength {
		return 0, New(ErrCodeInvalidDimension, "dimension too long (max %d characters)", maxDimensionLength)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if !isDigits(whole) || (hasPoint && !isDigits(frac)) {
		return 0, New(ErrCodeInvalidDimension,
			"dimensions must be entered in numeric characters (1,2,3, ...) and (optionally) a maximum of 1 decimal point: %q", s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidDimension, err, "invalid dimension %q", s)
	}
	if err := ValidateDimension(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateDimension checks that v is usable as a box dimension:
// finite and strictly positive.
func ValidateDimension(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidDimension, "dimension must be a finite number")
	}
	if v <= 0 {
		return New(ErrCodeInvalidDimension, "dimension must be positive, got %v", v)
	}
	return nil
}

// ValidateBoxCount parses the operator-entered number of boxes.
// Only non-negative integers written in ASCII digits are accepted.
func ValidateBoxCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, New(ErrCodeInvalidInput, "# of boxes must be entered in numeric characters (1,2,3, ...) only")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "invalid box count %q", s)
	}
	return n, nil
}

// ValidateFilePath validates a local input path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateFilePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
