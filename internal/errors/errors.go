// Package apperrors defines structured application error types, allowing for
// a clear distinction between error classes (configuration, approximation,
// precision, server) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with
// %w. Error types carrying a cause implement Unwrap() to support errors.Is()
// and errors.As().
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the
// application. These codes are used to signal the outcome of the program
// execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorMismatch  = 3   // Indicates an inconsistency between algorithm results.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorPrecision = 5   // Indicates a loss of numeric precision.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags
// or values. It indicates that the application cannot proceed due to
// incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ApproximationError encapsulates an approximation failure while preserving
// the original cause. This allows for structured error handling and
// inspection of what went wrong during the search.
type ApproximationError struct {
	// Cause is the underlying error that triggered this approximation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e ApproximationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ApproximationError) Unwrap() error { return e.Cause }

// PrecisionError reports that the floating-point side of the search no
// longer carries the requested working precision. It is a fatal condition:
// the search refuses to return a possibly degraded fraction.
type PrecisionError struct {
	// Requested is the working precision the caller asked for, in bits.
	Requested uint
	// Actual is the precision the computed error value carried.
	Actual uint
}

// Error returns the error message for a PrecisionError.
func (e PrecisionError) Error() string {
	return fmt.Sprintf("precision loss detected: error value carries %d of %d requested mantissa bits", e.Actual, e.Requested)
}

// NewPrecisionError creates a new PrecisionError.
//
// Parameters:
//   - requested: The working precision that was requested, in bits.
//   - actual: The precision actually observed, in bits.
//
// Returns:
//   - error: A new PrecisionError instance.
func NewPrecisionError(requested, actual uint) error {
	return PrecisionError{Requested: requested, Actual: actual}
}

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the
// server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError. It combines the
// descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError represents an error due to invalid input validation. It is
// used for API request validation and precondition checks on the core
// contracts (limit >= 1, target present, bound > 0).
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
//
// Parameters:
//   - field: The name of the field that failed validation.
//   - message: A description of why validation failed.
//   - value: The invalid value (optional).
//
// Returns:
//   - error: A new ValidationError instance.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
