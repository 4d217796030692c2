package errors

import (
	"strings"
	"unicode"
)

// MaxSeparatorLen bounds the label separator used when collapsing empty nodes.
const MaxSeparatorLen = 8

// ValidateSeparator checks a collapse label separator.
//
// The separator ends up inside DEPS labels, so it must not contain the
// characters that delimit DEPS entries or columns:
//   - no "|" (entry separator) and no ":" (head/relation separator)
//   - no whitespace or control characters
//   - at most MaxSeparatorLen bytes
//
// The empty string is accepted and means the default.
func ValidateSeparator(sep string) error {
	if len(sep) > MaxSeparatorLen {
		return New(ErrCodeInvalidSeparator, "separator too long (max %d bytes)", MaxSeparatorLen)
	}
	if strings.ContainsAny(sep, "|:") {
		return New(ErrCodeInvalidSeparator, "separator %q contains a DEPS delimiter", sep)
	}
	for _, r := range sep {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidSeparator, "separator %q contains whitespace or control characters", sep)
		}
	}
	return nil
}

// ValidateWorkers checks a worker count. Zero means "pick a default".
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "workers must not be negative, got %d", n)
	}
	if n > 1024 {
		return New(ErrCodeInvalidConfig, "workers too large (max 1024), got %d", n)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed.
func ValidateChoice(code Code, name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(code, "invalid %s: %q (must be one of: %s)", name, value, strings.Join(allowed, ", "))
}

// ValidateSentenceIndex checks a 1-based sentence number against the number
// of sentences read.
func ValidateSentenceIndex(n, count int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "sentence number must be at least 1, got %d", n)
	}
	if n > count {
		return New(ErrCodeNotFound, "sentence %d not found (input has %d)", n, count)
	}
	return nil
}
