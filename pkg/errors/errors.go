// Package errors provides structured error types for tidydag.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the analysis packages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - UNKNOWN_* / MISSING_*: References to nodes or roles that do not exist
//   - CYCLIC_GRAPH, UNCLOSABLE_BACKDOOR: Analysis failures
//   - INTERNAL_*: Unexpected internal errors
//
// Analysis packages define richer typed errors (a cyclic graph carries the
// offending cycle, an unclosable back-door carries the responsible paths).
// Those types expose a Code method so [GetCode] and [Is] recognize them too.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownNode, "unknown node: %s", id)
//	if errors.Is(err, errors.ErrCodeUnknownNode) {
//	    // Handle lookup error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidNodeID Code = "INVALID_NODE_ID"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeRoleConflict  Code = "ROLE_CONFLICT"

	// Lookup errors
	ErrCodeUnknownNode  Code = "UNKNOWN_NODE"
	ErrCodeMissingRole  Code = "MISSING_ROLE"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Analysis errors
	ErrCodeCyclicGraph              Code = "CYCLIC_GRAPH"
	ErrCodeUnclosableBackdoor       Code = "UNCLOSABLE_BACKDOOR"
	ErrCodeMissingAdjustingVariable Code = "MISSING_ADJUSTING_VARIABLE"

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

// Coder is implemented by typed errors that carry a machine-readable code
// without embedding an *Error.
type Coder interface {
	error
	Code() Code
}

// Is reports whether err has the given error code.
// It returns the code of the outermost *Error or [Coder] in the chain.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no *Error or [Coder] is found in the chain.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case Coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
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
