// Package errors provides structured error types for memegen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A non-fatal warning channel for per-layer problems
//
// # Error Codes
//
// Document-level failures are returned to the caller:
//   - NOT_FOUND: an operation referenced an unknown layer name
//   - INVALID_GEOMETRY: non-positive size or scale supplied to layout or render
//   - MALFORMED_DOCUMENT: deserialize input violates the record shape
//   - IMAGE_NOT_LOADED: geometry was requested before image metadata is known
//
// UNSUPPORTED_LAYER_KIND is recoverable: the record is skipped and reported as a
// [Warning] instead of failing the whole operation.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "layer %q not found", name)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing layer
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMalformedDocument, origErr, "decode document")
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
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidGeometry   Code = "INVALID_GEOMETRY"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeMalformedDocument Code = "MALFORMED_DOCUMENT"

	// Resource errors
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeImageNotLoaded Code = "IMAGE_NOT_LOADED"

	// Recoverable errors, reported as warnings
	ErrCodeUnsupportedLayerKind Code = "UNSUPPORTED_LAYER_KIND"

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

// Warning is a non-fatal problem attached to a single layer or record.
// Renderers and the deserializer collect warnings instead of aborting.
type Warning struct {
	Layer string // Layer name, or record index for unnamed records
	Err   error
}

// String formats the warning for logs.
func (w Warning) String() string {
	if w.Layer == "" {
		return w.Err.Error()
	}
	return fmt.Sprintf("%s: %v", w.Layer, w.Err)
}
