// Package errors provides a lightweight structured error type (StdlinksError)
// for category-based classification across the rewrite pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a stdlinks error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryResolver ErrorCategory = "resolver"

	// Runtime and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// StdlinksError is a structured error with category, severity, and context
type StdlinksError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for StdlinksError
type ContextFields map[string]any

// Error implements the error interface
func (e *StdlinksError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *StdlinksError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *StdlinksError) WithContext(key string, value any) *StdlinksError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new StdlinksError
func New(category ErrorCategory, severity ErrorSeverity, message string) *StdlinksError {
	return &StdlinksError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new StdlinksError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *StdlinksError {
	return &StdlinksError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if se, ok := err.(*StdlinksError); ok {
		return se.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a StdlinksError
func GetCategory(err error) ErrorCategory {
	if se, ok := err.(*StdlinksError); ok {
		return se.Category
	}
	return CategoryInternal
}

// ValidationError creates a new validation error
func ValidationError(message string) *StdlinksError {
	return &StdlinksError{
		Category: CategoryValidation,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// ResolverError creates a new resolver error
func ResolverError(message string) *StdlinksError {
	return &StdlinksError{
		Category: CategoryResolver,
		Severity: SeverityFatal,
		Message:  message,
	}
}

// InternalError creates a new internal invariant error
func InternalError(message string) *StdlinksError {
	return &StdlinksError{
		Category: CategoryInternal,
		Severity: SeverityFatal,
		Message:  message,
	}
}
