// Package cmd provides the CLI commands for pfind.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/pfind/internal/logging"
	"github.com/Aman-CERP/pfind/internal/output"
	"github.com/Aman-CERP/pfind/internal/profiling"
	"github.com/Aman-CERP/pfind/pkg/version"
)

// app holds state shared by the commands of one invocation.
type app struct {
	// Persistent flags
	debug     bool
	logLevel  string
	logFile   string
	logFormat string
	profile   profiling.Options

	session        *profiling.Session
	loggingCleanup func()
}

// NewRootCmd creates the root command for the pfind CLI.
func NewRootCmd() *cobra.Command {
	return (&app{}).rootCmd()
}

// Execute runs the root command and prints any error on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	root := a.rootCmd()
	err := root.ExecuteContext(ctx)
	a.close()

	if err != nil {
		output.New(root.ErrOrStderr(), output.ColorAuto).Error(err)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	sf := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "pfind <pattern> [directory]",
		Short: "Find files by name, in parallel",
		Long: `pfind walks a directory tree with a pool of workers and prints every entry
whose name matches a glob pattern.

The pattern is matched against the base name only. '*' matches any run of
characters, '?' exactly one, and '[...]' a character class. Matching is
case-insensitive unless --case-sensitive is given. With --regex the pattern is
an unanchored regular expression instead.

Entries named by the root's .gitignore are skipped along with everything
below them.`,
		Example: `  # All text files under the current directory
  pfind '*.txt'

  # Two levels deep, eight workers, sorted output
  pfind --max-depth 2 --threads 8 --sort 'file?.log' /var/log

  # Regular expression, case-sensitive
  pfind --regex --case-sensitive '_test\.go$' ./src`,
		Version:       version.Version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Past argument validation, failures are not usage errors.
			cmd.SilenceUsage = true
			return a.runSearch(cmd, args, sf)
		},
		PersistentPreRunE: a.start,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	cmd.SetVersionTemplate("pfind version {{.Version}}\n")

	sf.register(cmd)

	pf := cmd.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config: warn)")
	pf.StringVar(&a.logFile, "log-file", "", "Also write logs to this file, rotated by size")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&a.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	pf.StringVar(&a.profile.Mem, "profile-mem", "", "Write memory profile to file")
	pf.StringVar(&a.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// start begins profiling if requested.
func (a *app) start(_ *cobra.Command, _ []string) error {
	if !a.profile.Enabled() {
		return nil
	}
	s, err := profiling.Start(a.profile)
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

// close stops profiling and flushes the log file. Safe to call twice.
func (a *app) close() error {
	err := a.session.Stop()
	a.session = nil
	if err != nil {
		err = fmt.Errorf("failed to write profiles: %w", err)
	}

	if a.loggingCleanup != nil {
		a.loggingCleanup()
		a.loggingCleanup = nil
	}
	return err
}

// setupLogging installs the default logger from cfg with the persistent
// flags applied on top.
func (a *app) setupLogging(cmd *cobra.Command, cfg logging.Config) error {
	if a.logLevel != "" {
		cfg.Level = a.logLevel
	}
	if a.debug {
		cfg.Level = "debug"
	}
	if a.logFile != "" {
		cfg.FilePath = a.logFile
	}
	if a.logFormat != "" {
		cfg.Format = a.logFormat
	}
	cfg.Stderr = cmd.ErrOrStderr()

	cleanup, err := logging.SetupDefault(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.loggingCleanup = cleanup

	slog.Debug("logging configured",
		slog.String("level", cfg.Level),
		slog.String("format", cfg.Format),
		slog.String("file", cfg.FilePath),
		slog.String("version", version.Version))
	return nil
}
