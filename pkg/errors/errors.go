// Package errors provides structured error types for the Boxtower application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the search core
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures and contract violations
//   - RESOURCE_*: Inputs that make the search infeasible
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "dimension must be positive: %v", v)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "failed to read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Contract violations inside the search core
	ErrCodeInvalidBase Code = "INVALID_BASE"

	// Search feasibility
	ErrCodeResourceLimit Code = "RESOURCE_LIMIT"

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
// It unwraps the error chain looking for an *Error or *ResourceLimitError
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rl *ResourceLimitError
	if errors.As(err, &rl) {
		return rl.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ResourceLimitError reports an input whose combination space exceeds the
// configured ceiling. It is returned before any search work starts.
type ResourceLimitError struct {
	Count int    // Number of boxes requested
	Limit int    // Configured maximum
	Space uint64 // Size of the combination space (2^Count), 0 if it overflows
}

// Error implements the error interface.
func (e *ResourceLimitError) Error() string {
	if e.Space > 0 {
		return fmt.Sprintf("resource limit: %d boxes (%d combinations) exceeds limit of %d boxes", e.Count, e.Space, e.Limit)
	}
	return fmt.Sprintf("resource limit: %d boxes exceeds limit of %d boxes", e.Count, e.Limit)
}

// Code returns the error code for this error type.
func (e *ResourceLimitError) Code() Code {
	return ErrCodeResourceLimit
}

// AsResourceLimit extracts a *ResourceLimitError from err's chain.
func AsResourceLimit(err error) (*ResourceLimitError, bool) {
	var rl *ResourceLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
