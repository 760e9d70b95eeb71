// Package ignore loads the search root's ignore file and tests paths against it.
//
// The file uses a simplified glob syntax, one rule per line:
//
//	# comment
//	build        ignores any entry named "build", and so everything below it
//	*.log        ignores any entry whose name ends in ".log"
//	/vendor      ignores only "vendor" directly under the root
//	docs/tmp     ignores the entry at that root-relative path
//
// Blank lines and lines starting with "#" are skipped. A trailing "/" is
// dropped. Rules are matched case-sensitively. A line that does not compile is
// logged and skipped, the remaining rules still load.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
	"github.com/Aman-CERP/pfind/internal/pattern"
)

// FileName is the ignore file read from the search root.
const FileName = ".gitignore"

// MaxRuleLength is the longest rule line, in bytes, that will be compiled.
const MaxRuleLength = 4096

// commentPrefix marks a comment line.
const commentPrefix = "#"

// RuleSet is an ordered, immutable list of compiled ignore rules.
// A nil or empty RuleSet ignores nothing. Safe for concurrent use.
type RuleSet struct {
	rules []rule
}

// rule is a single compiled ignore line.
type rule struct {
	source   string           // line as written, trimmed
	matcher  *pattern.Matcher // compiled glob
	anchored bool             // leading "/": match the root-relative path only
}

// Load reads FileName from root. A missing file yields an empty RuleSet.
// cache may be nil.
func Load(root string, cache *pattern.Cache) (*RuleSet, error) {
	return LoadFile(root, FileName, cache)
}

// LoadFile is Load with a different ignore file name.
func LoadFile(root, name string, cache *pattern.Cache) (*RuleSet, error) {
	if name == "" {
		name = FileName
	}
	p := filepath.Join(root, name)

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no ignore file", slog.String("path", p))
			return &RuleSet{}, nil
		}
		return nil, serrors.New(serrors.ErrCodeIgnoreFileRead, fmt.Sprintf("failed to open ignore file %s", p), err)
	}
	defer func() { _ = f.Close() }()

	rs, err := Parse(f, cache)
	if err != nil {
		return nil, serrors.New(serrors.ErrCodeIgnoreFileRead, fmt.Sprintf("failed to read ignore file %s", p), err)
	}

	slog.Debug("ignore rules loaded",
		slog.String("path", p),
		slog.Int("rules", rs.Len()))

	return rs, nil
}

// Parse reads rules from r, one per line. Lines longer than MaxRuleLength
// are skipped with a warning like any other invalid rule.
func Parse(r io.Reader, cache *pattern.Cache) (*RuleSet, error) {
	rs := &RuleSet{}

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, readErr
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNo++

		if lineNo == 1 {
			// Editors on some platforms prepend a byte order mark.
			line = strings.TrimPrefix(line, "\ufeff")
		}

		rl, ok, err := parseRule(line, cache)
		if err != nil {
			ruleErr := serrors.IgnoreRuleError(lineNo, truncate(strings.TrimSpace(line)), err)
			slog.Warn("skipping invalid ignore rule", serrors.LogAttrs(ruleErr)...)
		} else if ok {
			rs.rules = append(rs.rules, rl)
		}

		if readErr == io.EOF {
			break
		}
	}

	return rs, nil
}

// truncate shortens a rule for log output.
func truncate(rule string) string {
	const max = 80
	if len(rule) <= max {
		return rule
	}
	return rule[:max] + "..."
}

// parseRule compiles a single line. ok is false for blank and comment lines.
func parseRule(line string, cache *pattern.Cache) (r rule, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, commentPrefix) {
		return rule{}, false, nil
	}
	if len(line) > MaxRuleLength {
		return rule{}, false, fmt.Errorf("rule is %d bytes, longer than %d", len(line), MaxRuleLength)
	}

	r.source = line

	glob := strings.TrimSuffix(line, "/")
	if strings.HasPrefix(glob, "/") {
		r.anchored = true
		glob = strings.TrimPrefix(glob, "/")
	}
	if glob == "" {
		return rule{}, false, fmt.Errorf("rule matches nothing")
	}

	if cache != nil {
		r.matcher, err = cache.Compile(glob, true)
	} else {
		r.matcher, err = pattern.Compile(glob, true)
	}
	if err != nil {
		return rule{}, false, err
	}

	return r, true, nil
}

// Ignored reports whether the entry at relPath (slash-separated, relative to
// the search root) matches any rule. It stops at the first match.
func (rs *RuleSet) Ignored(relPath string) bool {
	if rs == nil || len(rs.rules) == 0 {
		return false
	}

	relPath = filepath.ToSlash(relPath)
	base := path.Base(relPath)

	for _, r := range rs.rules {
		if r.matcher.Match(relPath) {
			return true
		}
		if !r.anchored && r.matcher.Match(base) {
			return true
		}
	}

	return false
}

// Len returns the number of loaded rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Patterns returns the rules as written, in file order.
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = r.source
	}
	return out
}
