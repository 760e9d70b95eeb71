package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pfind/internal/config"
	serrors "github.com/Aman-CERP/pfind/internal/errors"
	"github.com/Aman-CERP/pfind/internal/finder"
	"github.com/Aman-CERP/pfind/internal/ignore"
	"github.com/Aman-CERP/pfind/internal/output"
	"github.com/Aman-CERP/pfind/internal/pattern"
	"github.com/Aman-CERP/pfind/internal/results"
)

// searchFlags are the root command's local flags. Each one overrides the
// corresponding config value only when given on the command line.
type searchFlags struct {
	caseSensitive  bool
	maxDepth       int
	threads        int
	regex          bool
	followSymlinks bool
	noIgnore       bool
	sort           bool
	outputFile     string
	quiet          bool
	color          string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.caseSensitive, "case-sensitive", false, "Match names case-sensitively")
	fl.IntVar(&f.maxDepth, "max-depth", -1, "Descend at most N levels below the directory (-1 = unlimited, 0 = its entries only)")
	fl.IntVar(&f.threads, "threads", 0, "Number of worker threads (default: number of CPUs)")
	fl.BoolVar(&f.regex, "regex", false, "Treat the pattern as a regular expression")
	fl.BoolVar(&f.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	fl.BoolVar(&f.noIgnore, "no-ignore", false, "Do not read the ignore file")
	fl.BoolVar(&f.sort, "sort", false, "Print results in lexical order")
	fl.StringVarP(&f.outputFile, "output", "o", "", "Append results to FILE instead of stdout")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "Do not print the summary")
	fl.StringVar(&f.color, "color", "", "Style the summary: auto, always, never")
}

// apply copies explicitly set flags over cfg.
func (f *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("case-sensitive") {
		cfg.Search.CaseSensitive = f.caseSensitive
	}
	if fl.Changed("max-depth") {
		cfg.Search.MaxDepth = f.maxDepth
	}
	if fl.Changed("threads") {
		cfg.Search.Threads = f.threads
	}
	if fl.Changed("regex") {
		cfg.Search.Regex = f.regex
	}
	if fl.Changed("follow-symlinks") {
		cfg.Search.FollowSymlinks = f.followSymlinks
	}
	if fl.Changed("no-ignore") {
		cfg.Ignore.Enabled = !f.noIgnore
	}
	if fl.Changed("sort") {
		cfg.Output.Sort = f.sort
	}
	if fl.Changed("quiet") {
		cfg.Output.Quiet = f.quiet
	}
	if fl.Changed("color") {
		cfg.Output.Color = f.color
	}
}

func (a *app) runSearch(cmd *cobra.Command, args []string, sf *searchFlags) error {
	expr := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	sf.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := a.setupLogging(cmd, cfg.LogConfig()); err != nil {
		return err
	}

	cache, err := pattern.NewCache(cfg.Ignore.CacheSize)
	if err != nil {
		return serrors.Wrap(serrors.ErrCodeInternal, err)
	}

	var matcher *pattern.Matcher
	if cfg.Search.Regex {
		matcher, err = cache.CompileRegex(expr, cfg.Search.CaseSensitive)
	} else {
		matcher, err = cache.Compile(expr, cfg.Search.CaseSensitive)
	}
	if err != nil {
		return err
	}

	var rules *ignore.RuleSet
	if cfg.Ignore.Enabled {
		rules, err = ignore.LoadFile(root, cfg.Ignore.File, cache)
		if err != nil {
			// Searching without rules beats not searching.
			slog.Warn("ignoring unreadable ignore file", serrors.LogAttrs(err)...)
			rules = nil
		}
	}

	sink := results.NewSink()
	stats, err := finder.Find(cmd.Context(), finder.Options{
		Root:           root,
		Matcher:        matcher,
		Rules:          rules,
		MaxDepth:       cfg.Search.MaxDepth,
		Workers:        cfg.Workers(),
		FollowSymlinks: cfg.Search.FollowSymlinks,
	}, sink)
	if stats == nil {
		return err
	}
	searchErr := err

	if err := writeResults(cmd, sink, sf.outputFile, cfg.Output.Sort); err != nil {
		return err
	}

	if !cfg.Output.Quiet {
		output.New(cmd.ErrOrStderr(), output.ColorMode(cfg.Output.Color)).Summary(stats)
	}

	return searchErr
}

func writeResults(cmd *cobra.Command, sink *results.Sink, file string, sorted bool) error {
	if file != "" {
		if _, err := sink.AppendToFile(file, sorted); err != nil {
			return serrors.New(serrors.ErrCodeOutputWrite, fmt.Sprintf("failed to write results to %s", file), err).
				WithDetail("path", file)
		}
		return nil
	}

	flush := sink.Flush
	if sorted {
		flush = sink.FlushSorted
	}
	if _, err := flush(cmd.OutOrStdout()); err != nil {
		return serrors.New(serrors.ErrCodeOutputWrite, "failed to write results", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
