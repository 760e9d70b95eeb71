package finder

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
	"github.com/Aman-CERP/pfind/internal/tracker"
	"github.com/Aman-CERP/pfind/internal/workpool"
)

// counters are updated by workers and copied into Stats at the end.
type counters struct {
	directories  atomic.Int64
	entries      atomic.Int64
	matches      atomic.Int64
	ignored      atomic.Int64
	accessErrors atomic.Int64
}

// run holds the state shared by all workers of one Find call.
type run struct {
	ctx  context.Context
	opts Options
	sink Sink

	tracker *tracker.Tracker
	pool    *workpool.Pool[WorkItem]
	stats   counters

	// visited holds real paths of scanned directories when following symlinks.
	visited sync.Map

	violationOnce sync.Once
	violation     error
}

// Find searches opts.Root and sends every matching path to sink.
// It returns when the whole tree has been scanned, or, after ctx is
// cancelled, when in-flight scans have stopped. Unreadable directories are
// logged and counted, they do not fail the run.
func Find(ctx context.Context, opts Options, sink Sink) (*Stats, error) {
	if err := validate(opts, sink); err != nil {
		return nil, err
	}

	start := time.Now()
	r := &run{
		ctx:     ctx,
		opts:    opts,
		sink:    sink,
		tracker: tracker.New(1),
	}
	r.pool = workpool.New(opts.Workers, r.scan)

	slog.Debug("search started",
		slog.String("root", opts.Root),
		slog.String("pattern", opts.Matcher.String()),
		slog.Int("workers", r.pool.Workers()),
		slog.Int("max_depth", opts.MaxDepth),
		slog.Int("ignore_rules", opts.Rules.Len()))

	r.pool.Start()
	if err := r.pool.Submit(WorkItem{Dir: "", Depth: 0}); err != nil {
		r.tracker.Done()
		r.recordViolation(err)
	}

	r.tracker.Wait(func() bool { return r.pool.Pending() == 0 })

	shutdownErr := r.pool.Shutdown()

	stats := &Stats{
		Workers:      r.pool.Workers(),
		Directories:  r.stats.directories.Load(),
		Entries:      r.stats.entries.Load(),
		Matches:      r.stats.matches.Load(),
		Ignored:      r.stats.ignored.Load(),
		AccessErrors: r.stats.accessErrors.Load(),
		Duration:     time.Since(start),
	}

	slog.Debug("search finished",
		slog.Int64("directories", stats.Directories),
		slog.Int64("matches", stats.Matches),
		slog.Int64("access_errors", stats.AccessErrors),
		slog.Duration("duration", stats.Duration))

	if r.violation != nil {
		return stats, r.violation
	}
	if shutdownErr != nil {
		return stats, shutdownErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func validate(opts Options, sink Sink) error {
	if opts.Matcher == nil {
		return serrors.New(serrors.ErrCodeInvalidInput, "a name pattern is required", nil)
	}
	if sink == nil {
		return serrors.New(serrors.ErrCodeInvalidInput, "a result sink is required", nil)
	}
	if opts.MaxDepth < Unlimited {
		return serrors.New(serrors.ErrCodeInvalidInput,
			fmt.Sprintf("max depth must be -1 or greater, got %d", opts.MaxDepth), nil)
	}
	if opts.Root == "" {
		return serrors.PathError("search root is empty", nil)
	}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return serrors.PathError(fmt.Sprintf("cannot access search root %s", opts.Root), err).
			WithDetail("path", opts.Root).
			WithSuggestion("Check that the directory exists and is readable")
	}
	if !info.IsDir() {
		return serrors.PathError(fmt.Sprintf("search root %s is not a directory", opts.Root), nil).
			WithDetail("path", opts.Root)
	}
	return nil
}

// scan processes one directory. It is the pool's handler.
func (r *run) scan(item WorkItem) {
	defer r.tracker.Done()

	if r.ctx.Err() != nil {
		return
	}

	dir := r.fullPath(item.Dir)
	if r.opts.FollowSymlinks && !r.firstVisit(dir) {
		return
	}

	entries, err := readDir(dir)
	if err != nil {
		r.stats.accessErrors.Add(1)
		slog.Warn("skipping unreadable directory", serrors.LogAttrs(serrors.DirectoryAccessError(dir, err))...)
		// ReadDir may still return the entries read before the failure.
		if len(entries) == 0 {
			return
		}
	}
	r.stats.directories.Add(1)

	var children []WorkItem
	for _, e := range entries {
		if r.ctx.Err() != nil {
			return
		}
		r.stats.entries.Add(1)

		rel := path.Join(item.Dir, e.Name())
		if r.opts.Rules.Ignored(rel) {
			r.stats.ignored.Add(1)
			continue
		}

		if r.opts.Matcher.Match(e.Name()) {
			r.stats.matches.Add(1)
			r.sink.Add(r.fullPath(rel))
		}

		if r.descend(item.Depth) && r.isDir(e, rel) {
			children = append(children, WorkItem{Dir: rel, Depth: item.Depth + 1})
		}
	}

	for _, child := range children {
		r.tracker.Reserve()
		if err := r.pool.Submit(child); err != nil {
			r.tracker.Done()
			r.recordViolation(err)
			return
		}
	}
}

// readDir lists a directory. Tests replace it to simulate listing failures.
var readDir = os.ReadDir

func (r *run) descend(depth int) bool {
	return r.opts.MaxDepth < 0 || depth < r.opts.MaxDepth
}

func (r *run) isDir(e fs.DirEntry, rel string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 || !r.opts.FollowSymlinks {
		return false
	}
	info, err := os.Stat(r.fullPath(rel))
	if err != nil {
		slog.Debug("dangling symlink", slog.String("path", r.fullPath(rel)), slog.String("error", err.Error()))
		return false
	}
	return info.IsDir()
}

// firstVisit reports whether dir's real path has not been scanned yet.
func (r *run) firstVisit(dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		// Let ReadDir report the problem.
		return true
	}
	_, seen := r.visited.LoadOrStore(resolved, struct{}{})
	if seen {
		slog.Debug("directory already scanned", slog.String("path", dir), slog.String("real_path", resolved))
	}
	return !seen
}

func (r *run) fullPath(rel string) string {
	if rel == "" {
		return r.opts.Root
	}
	return filepath.Join(r.opts.Root, filepath.FromSlash(rel))
}

func (r *run) recordViolation(err error) {
	r.violationOnce.Do(func() {
		slog.Error("work accounting failed", serrors.LogAttrs(err)...)
		r.violation = err
	})
}
