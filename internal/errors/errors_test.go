package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("permission denied")

	// When: wrapping with SearchError
	searchErr := DirectoryAccessError("/srv/private", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, searchErr)
	assert.Equal(t, originalErr, errors.Unwrap(searchErr))
	assert.True(t, errors.Is(searchErr, originalErr))
}

func TestSearchError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigInvalid,
			message:  "threads must be non-negative",
			expected: "[ERR_102_CONFIG_INVALID] threads must be non-negative",
		},
		{
			name:     "access error",
			code:     ErrCodeDirectoryAccess,
			message:  "cannot read directory /root",
			expected: "[ERR_201_DIRECTORY_ACCESS] cannot read directory /root",
		},
		{
			name:     "pattern error",
			code:     ErrCodeInvalidPattern,
			message:  "invalid pattern",
			expected: "[ERR_401_INVALID_PATTERN] invalid pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestSearchError_Is_MatchesByCode(t *testing.T) {
	err1 := PatternError("[z-a]", nil)
	err2 := New(ErrCodeInvalidPattern, "other", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, New(ErrCodeInvalidPath, "x", nil)))
}

func TestSearchError_Is_ThroughFmtWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading rules: %w", IgnoreRuleError(3, "[", nil))

	assert.True(t, errors.Is(wrapped, New(ErrCodeInvalidIgnoreRule, "", nil)))
	assert.Equal(t, ErrCodeInvalidIgnoreRule, GetCode(wrapped))
	assert.Equal(t, CategoryValidation, GetCategory(wrapped))
}

func TestSearchError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeDirectoryAccess, CategoryIO},
		{ErrCodeIgnoreFileRead, CategoryIO},
		{ErrCodeInvalidPattern, CategoryValidation},
		{ErrCodeInvalidIgnoreRule, CategoryValidation},
		{ErrCodeProtocolViolation, CategoryInternal},
		{"bogus", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestIsFatal_ChecksFatalSeverity(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "pattern compile", err: PatternError("[", nil), expected: true},
		{name: "protocol violation", err: ProtocolViolation("enqueue after shutdown"), expected: true},
		{name: "invalid root", err: PathError("not a directory", nil), expected: true},
		{name: "wrapped fatal", err: fmt.Errorf("run: %w", ProtocolViolation("x")), expected: true},
		{name: "access error is recoverable", err: DirectoryAccessError("/x", nil), expected: false},
		{name: "ignore rule is recoverable", err: IgnoreRuleError(1, "[", nil), expected: false},
		{name: "standard error", err: errors.New("standard error"), expected: false},
		{name: "nil error", err: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFatal(tt.err))
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIgnoreRuleError_CarriesDetails(t *testing.T) {
	err := IgnoreRuleError(7, "[z-a]", errors.New("bad range"))

	assert.Equal(t, "[z-a]", err.Details["rule"])
	assert.Equal(t, "7", err.Details["line"])
	assert.Equal(t, SeverityWarning, err.Severity)
}
