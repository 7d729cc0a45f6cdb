// Package errors provides structured error types for the tag cloud engine.
//
// No condition in the engine is fatal: every error produced here describes a
// rejected mutation or a substituted value and is delivered to the caller as a
// return value and to the engine's diagnostic channel.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures (options, tags, event names)
//   - *_OUT_OF_RANGE / NOTHING_TO_*: operations that had nothing to act on
//   - NOT_READY: an external resource (image, vector source) is not loaded yet
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTag, "color %q is not #rrggbb", c)
//	if errors.Is(err, errors.ErrCodeInvalidTag) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNotReady, origErr, "load image %s", path)
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
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidTag    Code = "INVALID_TAG"
	ErrCodeInvalidEvent  Code = "INVALID_EVENT"
	ErrCodeInvalidShape  Code = "INVALID_SHAPE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Operations with nothing to act on
	ErrCodeIndexOutOfRange Code = "INDEX_OUT_OF_RANGE"
	ErrCodeNothingToUndo   Code = "NOTHING_TO_UNDO"
	ErrCodeNothingToRedo   Code = "NOTHING_TO_REDO"
	ErrCodeNotFound        Code = "NOT_FOUND"

	// Lifecycle and resources
	ErrCodeNotReady  Code = "NOT_READY"
	ErrCodeDestroyed Code = "DESTROYED"

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

// OptionError describes one configuration value that was replaced by a
// default. Field is the option name as it appears in patches.
type OptionError struct {
	Field    string
	Value    any
	Fallback any
	Reason   string
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: option %s=%v %s, using %v", ErrCodeInvalidOption, e.Field, e.Value, e.Reason, e.Fallback)
}

// Code returns the error code for this error type.
func (e *OptionError) Code() Code {
	return ErrCodeInvalidOption
}
