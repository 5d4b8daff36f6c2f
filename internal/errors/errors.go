package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorMismatch  = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig    = 4   // Indicates a configuration or input error.
	ExitErrorInvariant = 5   // Indicates a pipeline invariant was violated.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RunError wraps a failure of a prime-finding strategy while preserving the
// original cause, so that callers can still match context errors or
// invariant violations through errors.Is and errors.As.
type RunError struct {
	// Strategy is the name of the strategy that failed.
	Strategy string
	// Cause is the underlying error.
	Cause error
}

// Error returns the strategy name followed by the cause.
func (e RunError) Error() string {
	if e.Strategy == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Strategy, e.Cause)
}

// Unwrap returns the original wrapped error.
func (e RunError) Unwrap() error { return e.Cause }

// TimeoutError represents an operation that exceeded its deadline. It captures
// the operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
//
// Malformed pipeline input (an empty range, zero workers) is reported with
// this type before any queue is created.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// InvariantError reports a broken pipeline invariant, such as a worker
// completion count that does not match the number of launched workers.
// It is fatal: the run that produced it must be discarded.
type InvariantError struct {
	// Invariant names the property that was violated.
	Invariant string
	// Expected is the value the invariant requires.
	Expected int
	// Observed is the value that was actually seen.
	Observed int
}

// Error returns a formatted message describing the violation.
func (e InvariantError) Error() string {
	return fmt.Sprintf("invariant violated: %s (expected %d, observed %d)", e.Invariant, e.Expected, e.Observed)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsInvariantError reports whether err carries an InvariantError.
func IsInvariantError(err error) bool {
	var ie InvariantError
	return errors.As(err, &ie)
}
