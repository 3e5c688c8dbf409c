package errors

import (
	"errors"
	"fmt"
)

// PulseError is the structured error type used across the ingestion job.
type PulseError struct {
	// Code is the unique error code (e.g., "ERR_201_NO_INPUT").
	Code string

	// Message is the human-readable error message.
	Message string

	Category Category
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Suggestion is an actionable hint for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *PulseError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PulseError) Unwrap() error {
	return e.Cause
}

// Is matches another PulseError by code, so errors.Is works against
// sentinel-style values built with New.
func (e *PulseError) Is(target error) bool {
	if t, ok := target.(*PulseError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail and returns the error for chaining.
func (e *PulseError) WithDetail(key, value string) *PulseError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the operator hint and returns the error for chaining.
func (e *PulseError) WithSuggestion(suggestion string) *PulseError {
	e.Suggestion = suggestion
	return e
}

// New creates a PulseError. Category and severity are derived from the code.
func New(code string, message string, cause error) *PulseError {
	return &PulseError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a PulseError whose message is the wrapped error's message.
func Wrap(code string, err error) *PulseError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// IsFatal reports whether err (or anything it wraps) is a fatal PulseError.
func IsFatal(err error) bool {
	var pe *PulseError
	if errors.As(err, &pe) {
		return pe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the code of the first PulseError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var pe *PulseError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
