package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// FormatForCLI formats an error for terminal display on stderr.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var se *SearchError
	if !errors.As(err, &se) {
		se = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", se.Message))
	if se.Cause != nil {
		sb.WriteString(fmt.Sprintf("  Cause: %s\n", se.Cause))
	}
	if se.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", se.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", se.Code))

	return sb.String()
}

// LogAttrs returns slog attributes describing err, for use as
// slog.Warn(msg, errors.LogAttrs(err)...).
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	var se *SearchError
	if !errors.As(err, &se) {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("code", se.Code),
		slog.String("severity", string(se.Severity)),
	}
	if se.Cause != nil {
		attrs = append(attrs, slog.String("error", se.Cause.Error()))
	}

	keys := make([]string, 0, len(se.Details))
	for k := range se.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, se.Details[k]))
	}

	return attrs
}
