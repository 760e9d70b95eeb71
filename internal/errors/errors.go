package errors

import (
	"errors"
	"fmt"
)

// SearchError is the structured error type for pfind.
// It carries enough context for logging and for the CLI to pick an exit path.
type SearchError struct {
	// Code is the unique error code (e.g., "ERR_401_INVALID_PATTERN").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *SearchError) Unwrap() error {
	return e.Cause
}

// Is matches another SearchError by code, so sentinel values work with errors.Is.
func (e *SearchError) Is(target error) bool {
	if t, ok := target.(*SearchError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *SearchError) WithDetail(key, value string) *SearchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *SearchError) WithSuggestion(suggestion string) *SearchError {
	e.Suggestion = suggestion
	return e
}

// New creates a new SearchError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *SearchError {
	return &SearchError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a SearchError from an existing error.
func Wrap(code string, err error) *SearchError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// PatternError reports a search pattern that could not be compiled.
func PatternError(pattern string, cause error) *SearchError {
	return New(ErrCodeInvalidPattern, fmt.Sprintf("invalid pattern %q", pattern), cause).
		WithDetail("pattern", pattern)
}

// IgnoreRuleError reports an ignore-file line that could not be compiled.
func IgnoreRuleError(line int, rule string, cause error) *SearchError {
	return New(ErrCodeInvalidIgnoreRule, fmt.Sprintf("invalid ignore rule %q on line %d", rule, line), cause).
		WithDetail("rule", rule).
		WithDetail("line", fmt.Sprint(line))
}

// DirectoryAccessError reports a directory that could not be listed.
func DirectoryAccessError(dir string, cause error) *SearchError {
	return New(ErrCodeDirectoryAccess, fmt.Sprintf("cannot read directory %s", dir), cause).
		WithDetail("path", dir)
}

// ProtocolViolation reports a broken work-accounting invariant.
func ProtocolViolation(message string) *SearchError {
	return New(ErrCodeProtocolViolation, message, nil)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *SearchError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// PathError reports an unusable search root.
func PathError(message string, cause error) *SearchError {
	return New(ErrCodeInvalidPath, message, cause)
}

// IsFatal checks if any error in the chain has fatal severity.
func IsFatal(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a SearchError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a SearchError in the chain.
func GetCategory(err error) Category {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Category
	}
	return ""
}
