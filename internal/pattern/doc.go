// Package pattern compiles user-supplied name patterns into immutable matchers.
//
// Glob syntax:
//   - "*" matches any run of characters, including the empty run
//   - "?" matches exactly one character
//   - "[abc]", "[a-z]", "[!x]" match one character from (or not from) a class
//   - every other character, including ".", "+", "(" and "|", is literal
//
// Globs are anchored: "*.txt" matches "a.b.txt" but not "a.txtx".
// Matching is case-insensitive unless requested otherwise.
//
// Usage:
//
//	m, err := pattern.Compile("*.go", false)
//	if err != nil {
//	    return err
//	}
//	if m.Match("main.go") {
//	    // ...
//	}
//
// A compiled Matcher never changes and may be shared by any number of
// goroutines without locking.
package pattern
