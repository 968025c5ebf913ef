// Package errors provides structured error types for holopanel.
//
// Every error raised by the layout engine, the document loader and the CLI
// carries a machine-readable [Code] so callers can tell authoring bugs
// (an under-specified modifier, an anchor cycle) apart from bad input
// (an unreadable config or document).
//
// # Error Codes
//
//   - LAYOUT_*: the node tree cannot be resolved; these are UI-authoring bugs
//   - INVALID_*: input validation failures (config, documents, formats)
//   - UNKNOWN_NODE / NOT_FOUND: lookups that missed
//   - INTERNAL / UNSUPPORTED: unexpected conditions
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLayoutUnderspecified, "node %d: no x anchor", id)
//	if errors.Is(err, errors.ErrCodeLayoutUnderspecified) {
//	    // fix the modifier
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout resolution errors
	ErrCodeLayoutUnderspecified Code = "LAYOUT_UNDERSPECIFIED"
	ErrCodeLayoutCycle          Code = "LAYOUT_CYCLE"
	ErrCodeUnknownNode          Code = "UNKNOWN_NODE"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

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
		return e.Message
	}
	return err.Error()
}

// IsLayout reports whether err is one of the layout resolution failures.
// These indicate a broken node tree and are never retried.
func IsLayout(err error) bool {
	switch GetCode(err) {
	case ErrCodeLayoutUnderspecified, ErrCodeLayoutCycle, ErrCodeUnknownNode:
		return true
	}
	return false
}
