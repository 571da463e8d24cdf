package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Configuration and input errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeConfig     ErrorType = "CONFIG"

	// Store errors
	ErrorTypeDatabase     ErrorType = "DATABASE"
	ErrorTypeThrottled    ErrorType = "THROTTLED"
	ErrorTypePartialBatch ErrorType = "PARTIAL_BATCH"

	// Everything else
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`

	// Unprocessed is set for PARTIAL_BATCH errors: the number of items a
	// batch write left unpersisted.
	Unprocessed int `json:"unprocessed,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConfigError creates a configuration error. Config errors are the only
// errors that abort a run before any measurement is taken.
func NewConfigError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("store operation '%s' failed", operation),
		Cause:   err,
	}
}

// NewThrottledError creates a throttling error
func NewThrottledError(operation string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeThrottled,
		Message: fmt.Sprintf("store operation '%s' was throttled", operation),
		Cause:   err,
	}
}

// NewPartialBatchError records a batch write that left items unprocessed.
// The items are counted and surfaced, never resubmitted.
func NewPartialBatchError(table string, unprocessed int) *AppError {
	return &AppError{
		Type:        ErrorTypePartialBatch,
		Message:     fmt.Sprintf("batch write to '%s' left %d items unprocessed", table, unprocessed),
		Unprocessed: unprocessed,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
	}
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsThrottled checks if an error is a throttling error
func IsThrottled(err error) bool {
	return IsType(err, ErrorTypeThrottled)
}

// IsPartialBatch checks if an error is a partial batch failure
func IsPartialBatch(err error) bool {
	return IsType(err, ErrorTypePartialBatch)
}

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return IsType(err, ErrorTypeConfig)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
