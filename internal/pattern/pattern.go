package pattern

import (
	"fmt"
	"regexp"
	"strings"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
)

// Matcher is a compiled, immutable name pattern.
type Matcher struct {
	expr          string
	re            *regexp.Regexp
	caseSensitive bool
	regex         bool
}

// Compile translates a glob into an anchored regular expression and compiles it.
// Returns an ERR_401_INVALID_PATTERN error if the glob is empty or contains a
// character class that does not compile.
func Compile(glob string, caseSensitive bool) (*Matcher, error) {
	if glob == "" {
		return nil, serrors.PatternError(glob, fmt.Errorf("empty pattern"))
	}
	return compile(glob, "^"+GlobToRegex(glob)+"$", caseSensitive, false)
}

// CompileRegex compiles expr as an unanchored RE2 regular expression.
// A name matches if any part of it matches expr.
func CompileRegex(expr string, caseSensitive bool) (*Matcher, error) {
	if expr == "" {
		return nil, serrors.PatternError(expr, fmt.Errorf("empty pattern"))
	}
	return compile(expr, expr, caseSensitive, true)
}

func compile(source, expr string, caseSensitive, regex bool) (*Matcher, error) {
	flags := "(?s)"
	if !caseSensitive {
		flags = "(?is)"
	}

	re, err := regexp.Compile(flags + expr)
	if err != nil {
		return nil, serrors.PatternError(source, err)
	}

	return &Matcher{
		expr:          source,
		re:            re,
		caseSensitive: caseSensitive,
		regex:         regex,
	}, nil
}

// Match reports whether name matches the pattern.
func (m *Matcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// String returns the pattern as written by the user.
func (m *Matcher) String() string {
	return m.expr
}

// CaseSensitive reports whether the matcher distinguishes letter case.
func (m *Matcher) CaseSensitive() bool {
	return m.caseSensitive
}

// IsRegex reports whether the matcher was built from a raw regular expression.
func (m *Matcher) IsRegex() bool {
	return m.regex
}

// GlobToRegex converts a glob to an (unanchored) regular expression string.
func GlobToRegex(glob string) string {
	var result strings.Builder

	i := 0
	for i < len(glob) {
		c := glob[i]

		switch c {
		case '*':
			result.WriteString(".*")
			i++

		case '?':
			result.WriteString(".")
			i++

		case '[':
			end := classEnd(glob, i)
			if end < 0 {
				// Unterminated class is a literal bracket.
				result.WriteString(`\[`)
				i++
				continue
			}
			result.WriteString(translateClass(glob[i+1 : end]))
			i = end + 1

		default:
			// Byte-wise quoting keeps multi-byte UTF-8 sequences intact,
			// QuoteMeta only touches ASCII metacharacters.
			result.WriteString(regexp.QuoteMeta(glob[i : i+1]))
			i++
		}
	}

	return result.String()
}

// classEnd returns the index of the "]" closing the class opened at start,
// or -1 if there is none. A "]" directly after "[" or "[!" is a literal member.
func classEnd(glob string, start int) int {
	j := start + 1
	if j < len(glob) && (glob[j] == '!' || glob[j] == '^') {
		j++
	}
	if j < len(glob) && glob[j] == ']' {
		j++
	}
	for ; j < len(glob); j++ {
		if glob[j] == ']' {
			return j
		}
	}
	return -1
}

// translateClass converts the body of a glob class to a regexp class.
func translateClass(body string) string {
	var result strings.Builder
	result.WriteByte('[')

	if strings.HasPrefix(body, "!") || strings.HasPrefix(body, "^") {
		result.WriteByte('^')
		body = body[1:]
	}

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\', '[', ']':
			result.WriteByte('\\')
		}
		result.WriteByte(body[i])
	}

	result.WriteByte(']')
	return result.String()
}
