// Package errors provides structured error handling for pfind.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (directories, ignore files)
//   - 4XX: Validation errors (patterns, rules, paths)
//   - 5XX: Internal errors (protocol violations)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates broken internal invariants.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, the run must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but the process can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, only a subtree or a rule is lost.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeDirectoryAccess = "ERR_201_DIRECTORY_ACCESS"
	ErrCodeIgnoreFileRead  = "ERR_202_IGNORE_FILE_READ"
	ErrCodeOutputWrite     = "ERR_203_OUTPUT_WRITE"

	// Validation errors (400-499)
	ErrCodeInvalidPattern    = "ERR_401_INVALID_PATTERN"
	ErrCodeInvalidIgnoreRule = "ERR_402_INVALID_IGNORE_RULE"
	ErrCodeInvalidInput      = "ERR_403_INVALID_INPUT"
	ErrCodeInvalidPath       = "ERR_406_INVALID_PATH"

	// Internal errors (500-599)
	ErrCodeProtocolViolation = "ERR_501_PROTOCOL_VIOLATION"
	ErrCodeInternal          = "ERR_502_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeInvalidPattern, ErrCodeInvalidPath, ErrCodeProtocolViolation:
		return SeverityFatal
	case ErrCodeDirectoryAccess, ErrCodeInvalidIgnoreRule:
		return SeverityWarning
	default:
		return SeverityError
	}
}
