// Package errors provides structured error types for udgraph's outer layers.
//
// The graph packages report failures with sentinel errors (for example
// depgraph.ErrDuplicateID). The CLI and HTTP service translate those into
// coded errors so that callers get a stable, machine-readable category:
//
//   - INVALID_*: the caller sent something unusable
//   - NOT_FOUND: a requested sentence or file does not exist
//   - INTERNAL_ERROR / UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "sentence %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidRecord, parseErr, "sentence %d", n)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/udgraph/pkg/depgraph"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidRecord    Code = "INVALID_RECORD"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidSeparator Code = "INVALID_SEPARATOR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// FromGraph classifies an error returned by the graph packages. Errors that
// already carry a code are returned unchanged; depgraph sentinels become
// INVALID_RECORD; anything else is INTERNAL_ERROR.
func FromGraph(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	code := ErrCodeInternal
	for _, sentinel := range []error{
		depgraph.ErrDuplicateID,
		depgraph.ErrMissingID,
		depgraph.ErrUnknownNode,
		depgraph.ErrInvalidID,
		depgraph.ErrInvalidRecord,
	} {
		if errors.Is(err, sentinel) {
			code = ErrCodeInvalidRecord
			break
		}
	}
	return Wrap(code, err, format, args...)
}

// HTTPStatus maps an error to the HTTP status the service responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidRecord, ErrCodeInvalidFormat, ErrCodeInvalidSeparator:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
