package errors

import (
	"slices"
	"strings"
)

// Output formats accepted by the solve command and the API.
var validFormats = []string{"text", "json", "yaml"}

// ValidateFormat checks that format names a supported output encoding.
// Matching is case-insensitive; the empty string is rejected.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !slices.Contains(validFormats, strings.ToLower(format)) {
		return New(ErrCodeInvalidFormat, "unsupported output format %q (want one of %s)",
			format, strings.Join(validFormats, ", "))
	}
	return nil
}

// ValidateUpdateIndex checks that i addresses one of n updates.
func ValidateUpdateIndex(i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeNotFound, "update %d out of range (have %d updates)", i, n)
	}
	return nil
}

// ValidateWorkers rejects negative worker counts. Zero means "use the default".
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "workers must not be negative, got %d", n)
	}
	return nil
}
