// Package errors provides structured error types for sankeyflow.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP surface
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Configuration errors are raised synchronously while a diagram is rendered
// and are never retried:
//   - MISSING_COLUMN: a required or declared column is absent
//   - UNKNOWN_FILTER: a filter name was not registered
//   - INVALID_FILTER: a filter registration is malformed
//   - NEGATIVE_VALUE: a flow value or edge width is negative
//   - INVALID_COLUMN_TYPE: a column has the wrong value kind
//   - INVALID_METRIC: a metric function failed or is unknown
//
// The remaining codes cover input files, output formats and internal faults.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingColumn, "column %q not found", name)
//	if errors.IsConfiguration(err) {
//	    // reject the render request
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeMissingColumn     Code = "MISSING_COLUMN"
	ErrCodeUnknownFilter     Code = "UNKNOWN_FILTER"
	ErrCodeInvalidFilter     Code = "INVALID_FILTER"
	ErrCodeNegativeValue     Code = "NEGATIVE_VALUE"
	ErrCodeInvalidColumnType Code = "INVALID_COLUMN_TYPE"
	ErrCodeInvalidMetric     Code = "INVALID_METRIC"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// configurationCodes are the error kinds a render call rejects synchronously.
var configurationCodes = map[Code]bool{
	ErrCodeMissingColumn:     true,
	ErrCodeUnknownFilter:     true,
	ErrCodeInvalidFilter:     true,
	ErrCodeNegativeValue:     true,
	ErrCodeInvalidColumnType: true,
	ErrCodeInvalidMetric:     true,
}

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

// IsConfiguration reports whether err is a configuration error: a missing
// column, an unknown or malformed filter, a negative value, a mistyped
// column or a failing metric.
func IsConfiguration(err error) bool {
	return configurationCodes[GetCode(err)]
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
