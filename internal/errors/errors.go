// Package errors provides the structured error type used across lawsearch.
// Stable codes keep startup configuration failures distinguishable from
// per-query degradation in logs and exit paths.
package errors

import "fmt"

// LawError is the structured error type for lawsearch.
type LawError struct {
	// Code is the unique error code (e.g. "ERR_201_BACKEND_UNAVAILABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Backend, Query, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Retryable indicates whether the operation can be retried.
	Retryable bool

	// Suggestion is an actionable hint for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *LawError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *LawError) Unwrap() error {
	return e.Cause
}

// Is matches LawErrors by code so errors.Is works across wrap layers.
func (e *LawError) Is(target error) bool {
	if t, ok := target.(*LawError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail. Returns the error for chaining.
func (e *LawError) WithDetail(key, value string) *LawError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the operator.
func (e *LawError) WithSuggestion(suggestion string) *LawError {
	e.Suggestion = suggestion
	return e
}

// New creates a LawError with the given code and message. Category,
// severity, and retryability are derived from the code.
func New(code string, message string, cause error) *LawError {
	return &LawError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a LawError from an existing error, keeping it as the cause.
func Wrap(code string, err error) *LawError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration error. Configuration errors are
// fatal: they abort startup rather than degrade a query.
func ConfigError(message string, cause error) *LawError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// BackendError creates a backend availability error.
func BackendError(message string, cause error) *LawError {
	return New(ErrCodeBackendUnavailable, message, cause)
}

// QueryError creates a per-query execution error. Query errors are
// retryable and never abort the surrounding search.
func QueryError(message string, cause error) *LawError {
	return New(ErrCodeQueryFailed, message, cause)
}

// IsFatal reports whether an error carries fatal severity.
func IsFatal(err error) bool {
	if le, ok := err.(*LawError); ok {
		return le.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the code from a LawError, or "" for foreign errors.
func GetCode(err error) string {
	if le, ok := err.(*LawError); ok {
		return le.Code
	}
	return ""
}
