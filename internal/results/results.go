// Package results collects matched paths from concurrent scanners.
package results

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/gofrs/flock"
)

// Sink is an append-only, mutex-protected collection of matched paths.
// Create one per search run. Order of Add calls from different goroutines is
// not defined; Sorted gives a deterministic view.
type Sink struct {
	mu    sync.Mutex
	paths []string
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add records a matched path.
func (s *Sink) Add(path string) {
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
}

// Len returns the number of recorded paths.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

// Paths returns a copy of the recorded paths in insertion order.
func (s *Sink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Sorted returns a copy of the recorded paths in lexical order.
func (s *Sink) Sorted() []string {
	out := s.Paths()
	sort.Strings(out)
	return out
}

// Flush writes every path to w, one per line, in insertion order.
// It returns the number of paths written.
func (s *Sink) Flush(w io.Writer) (int, error) {
	return writeLines(w, s.Paths())
}

// FlushSorted is Flush in lexical order.
func (s *Sink) FlushSorted(w io.Writer) (int, error) {
	return writeLines(w, s.Sorted())
}

// AppendToFile appends the paths to the file at path, creating it if needed.
// An exclusive lock on "<path>.lock" is held for the duration of the write so
// runs sharing an output file never interleave their lines.
func (s *Sink) AppendToFile(path string, sorted bool) (int, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return 0, fmt.Errorf("failed to lock output file %s: %w", path, err)
	}
	defer func() { _ = lock.Unlock() }()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	paths := s.Paths()
	if sorted {
		sort.Strings(paths)
	}

	n, err := writeLines(f, paths)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close output file %s: %w", path, closeErr)
	}
	return n, err
}

func writeLines(w io.Writer, paths []string) (int, error) {
	bw := bufio.NewWriter(w)
	for i, p := range paths {
		if _, err := bw.WriteString(p); err != nil {
			return i, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return i, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(paths), nil
}
