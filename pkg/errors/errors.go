// Package errors provides structured error types for topo2graph.
//
// Every failure in the converter is fatal to the run, but callers still need
// to tell a usage problem from a bad record so the CLI and the HTTP API can
// report them differently. Errors carry a machine-readable [Code] for that.
//
// # Error Codes
//
//   - USAGE, FILE_NOT_FOUND: the invocation itself is wrong
//   - UNKNOWN_RECORD, INVALID_SYNTAX, INVALID_FORMAT, DUPLICATE_IDENTIFIER:
//     the topology input cannot be translated
//   - NETWORK_ERROR, INTERNAL_ERROR: sinks, caches, and everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownRecord, "%s", rec)
//	if errors.Is(err, errors.ErrCodeUnknownRecord) {
//	    // print the record and exit 1
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Invocation errors
	ErrCodeUsage        Code = "USAGE"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Input errors
	ErrCodeUnknownRecord       Code = "UNKNOWN_RECORD"
	ErrCodeInvalidSyntax       Code = "INVALID_SYNTAX"
	ErrCodeInvalidFormat       Code = "INVALID_FORMAT"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"

	// Everything else
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
		return e.Message
	}
	return err.Error()
}

// IsInput reports whether err was caused by the topology input rather than
// the invocation or the environment.
func IsInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownRecord, ErrCodeInvalidSyntax, ErrCodeInvalidFormat, ErrCodeDuplicateIdentifier:
		return true
	}
	return false
}
