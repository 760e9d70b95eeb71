// Package finder runs a concurrent recursive search of a directory tree.
//
// Every directory is one work item. A worker lists its directory, reports
// entries whose names match, and submits each eligible subdirectory as a new
// item. The run ends when no item is queued or running, which the coordinator
// learns from a tracker.Tracker rather than by polling.
package finder

import (
	"time"

	"github.com/Aman-CERP/pfind/internal/ignore"
	"github.com/Aman-CERP/pfind/internal/pattern"
)

// Unlimited disables the depth limit.
const Unlimited = -1

// WorkItem is one directory awaiting a scan.
type WorkItem struct {
	// Dir is the directory relative to the search root, slash separated.
	// The root itself is "".
	Dir string

	// Depth is the number of directory levels below the root (root = 0).
	Depth int
}

// Options configures a search run.
type Options struct {
	// Root is the directory to search. Reported paths are joined onto it as
	// given, so a relative root yields relative results.
	Root string

	// Matcher tests entry base names. Required.
	Matcher *pattern.Matcher

	// Rules excludes entries by root-relative path. May be nil.
	Rules *ignore.RuleSet

	// MaxDepth limits recursion: a directory at depth k is descended into
	// only while k < MaxDepth. 0 scans the root's own entries only.
	// Unlimited (-1) has no limit.
	MaxDepth int

	// Workers is the number of concurrent scanners (0 = NumCPU).
	Workers int

	// FollowSymlinks descends into symlinked directories. Each real directory
	// is still scanned at most once.
	FollowSymlinks bool
}

// Sink receives matched paths. Add is called concurrently.
type Sink interface {
	Add(path string)
}

// Stats summarizes a finished run.
type Stats struct {
	Workers      int
	Directories  int64 // directories listed
	Entries      int64 // entries examined, ignored ones included
	Matches      int64
	Ignored      int64
	AccessErrors int64 // directories that could not be listed
	Duration     time.Duration
}
