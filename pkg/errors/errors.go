// Package errors provides coded error types for hawkeye.
//
// A code classifies a failure for the CLI exit path, the HTTP API and the
// JSON report, while the message and cause stay human-readable.
//
// # Error Codes
//
//   - INVALID_*: configuration and input validation failures
//   - *_FAILED: a step of a repository scan failed
//   - NETWORK_ERROR, RATE_LIMITED, UNAUTHORIZED: remote API failures
//   - INTERNAL_ERROR: anything unexpected, including recovered panics
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "organization is required")
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // ...
//	}
//
//	err := errors.Wrap(errors.ErrCodeCloneFailed, origErr, "clone %s", repo)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidReport Code = "INVALID_REPORT"

	// Scan step failures
	ErrCodeListFailed    Code = "LIST_FAILED"
	ErrCodeCloneFailed   Code = "CLONE_FAILED"
	ErrCodeExtractFailed Code = "EXTRACT_FAILED"
	ErrCodeInterrupted   Code = "INTERRUPTED"

	ErrCodeNotFound Code = "NOT_FOUND"

	// Remote API errors
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeConflict Code = "CONFLICT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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

// UserMessage returns a user-friendly message for the error: the message
// and cause of an *Error without the code prefix, or the error string.
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

// Panic converts a recovered panic value into an internal error.
func Panic(v any) *Error {
	if err, ok := v.(error); ok {
		return Wrap(ErrCodeInternal, err, "panic")
	}
	return New(ErrCodeInternal, "panic: %v", v)
}
