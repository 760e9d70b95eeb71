package pattern

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
)

func TestCompile_GlobSemantics(t *testing.T) {
	tests := []struct {
		name     string
		glob     string
		input    string
		expected bool
	}{
		// Star
		{name: "*.txt matches a.txt", glob: "*.txt", input: "a.txt", expected: true},
		{name: "*.txt matches a.b.txt", glob: "*.txt", input: "a.b.txt", expected: true},
		{name: "*.txt no match a.txtx", glob: "*.txt", input: "a.txtx", expected: false},
		{name: "*.txt matches bare .txt", glob: "*.txt", input: ".txt", expected: true},
		{name: "star alone matches anything", glob: "*", input: "whatever.go", expected: true},

		// Question mark
		{name: "file?.log matches file1.log", glob: "file?.log", input: "file1.log", expected: true},
		{name: "file?.log no match file12.log", glob: "file?.log", input: "file12.log", expected: false},
		{name: "file?.log no match file.log", glob: "file?.log", input: "file.log", expected: false},

		// Literal dot
		{name: "dot is literal", glob: "a.c", input: "abc", expected: false},
		{name: "dot matches dot", glob: "a.c", input: "a.c", expected: true},

		// Other metacharacters are literal
		{name: "plus is literal", glob: "a+b", input: "a+b", expected: true},
		{name: "plus is not repetition", glob: "a+b", input: "aab", expected: false},
		{name: "parens are literal", glob: "f(1).txt", input: "f(1).txt", expected: true},
		{name: "pipe is literal", glob: "a|b", input: "a", expected: false},
		{name: "dollar is literal", glob: "$HOME", input: "$HOME", expected: true},

		// Classes
		{name: "class matches member", glob: "file[0-9].log", input: "file7.log", expected: true},
		{name: "class rejects non-member", glob: "file[0-9].log", input: "fileA.log", expected: false},
		{name: "negated class", glob: "[!a]*", input: "abc", expected: false},
		{name: "negated class accepts", glob: "[!a]*", input: "xbc", expected: true},
		{name: "unterminated bracket is literal", glob: "a[b", input: "a[b", expected: true},

		// Anchoring
		{name: "prefix only no match", glob: "main", input: "main.go", expected: false},
		{name: "exact name", glob: "main.go", input: "main.go", expected: true},

		// Case folding (default insensitive)
		{name: "case insensitive by default", glob: "*.TXT", input: "notes.txt", expected: true},

		// Unicode
		{name: "unicode literal", glob: "café*.md", input: "café-menu.md", expected: true},
		{name: "question mark matches one rune", glob: "caf?", input: "café", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.glob, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m.Match(tt.input))
		})
	}
}

func TestCompile_CaseSensitive(t *testing.T) {
	m, err := Compile("*.TXT", true)
	require.NoError(t, err)

	assert.True(t, m.Match("NOTES.TXT"))
	assert.False(t, m.Match("notes.txt"))
	assert.True(t, m.CaseSensitive())
}

func TestCompile_InvalidPattern(t *testing.T) {
	tests := []struct {
		name string
		glob string
	}{
		{name: "empty", glob: ""},
		{name: "reversed class range", glob: "[z-a]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.glob, false)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Equal(t, serrors.ErrCodeInvalidPattern, serrors.GetCode(err))
			assert.True(t, serrors.IsFatal(err))
		})
	}
}

func TestCompileRegex_PartialMatch(t *testing.T) {
	m, err := CompileRegex(`^test_.*\.go$|_test\.go$`, true)
	require.NoError(t, err)

	assert.True(t, m.Match("scanner_test.go"))
	assert.True(t, m.Match("test_main.go"))
	assert.False(t, m.Match("main.go"))
	assert.True(t, m.IsRegex())

	partial, err := CompileRegex("conf", false)
	require.NoError(t, err)
	assert.True(t, partial.Match("nginx.CONF.bak"))
}

func TestCompileRegex_Invalid(t *testing.T) {
	_, err := CompileRegex("a(b", false)
	require.Error(t, err)
	assert.Equal(t, serrors.ErrCodeInvalidPattern, serrors.GetCode(err))
}

func TestGlobToRegex(t *testing.T) {
	tests := []struct {
		glob     string
		expected string
	}{
		{glob: "*.txt", expected: `.*\.txt`},
		{glob: "file?.log", expected: `file.\.log`},
		{glob: "a+b", expected: `a\+b`},
		{glob: "[!ab]x", expected: `[^ab]x`},
		{glob: "[]]", expected: `[\]]`},
		{glob: "a[", expected: `a\[`},
	}

	for _, tt := range tests {
		t.Run(tt.glob, func(t *testing.T) {
			assert.Equal(t, tt.expected, GlobToRegex(tt.glob))
		})
	}
}

func TestMatcher_ConcurrentMatch(t *testing.T) {
	m, err := Compile("*.go", false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				assert.True(t, m.Match("main.go"))
				assert.False(t, m.Match("main.rs"))
			}
		}()
	}
	wg.Wait()
}

func TestCache_ReusesCompiledMatchers(t *testing.T) {
	c, err := NewCache(0)
	require.NoError(t, err)

	m1, err := c.Compile("*.log", true)
	require.NoError(t, err)
	m2, err := c.Compile("*.log", true)
	require.NoError(t, err)
	m3, err := c.Compile("*.log", false)
	require.NoError(t, err)
	r1, err := c.CompileRegex("*.log", true)
	require.Error(t, err, "a leading star is not a valid regexp")
	assert.Nil(t, r1)

	assert.Same(t, m1, m2)
	assert.NotSame(t, m1, m3)
	assert.Equal(t, 2, c.Len())
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	_, err = c.Compile("[z-a]", false)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Evicts(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	for _, g := range []string{"a", "b", "c"} {
		_, err := c.Compile(g, false)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
}
