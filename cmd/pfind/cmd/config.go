package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/pfind/internal/config"
	"github.com/Aman-CERP/pfind/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage pfind configuration files.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/pfind/config.yaml)
  3. Project config (.pfind.yaml in the searched directory)
  4. Environment variables (PFIND_*)
  5. Command-line flags`,
		Example: `  # Write a user config with every default spelled out
  pfind config init

  # Show the configuration a search of ./src would use
  pfind config show ./src

  # Print user config file path
  pfind config path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	var projectDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the defaults",
		Long: `Create the user configuration file, or with --project a .pfind.yaml in the
given directory, containing every setting at its default value.

An existing file is left alone unless --force is given, in which case it is
backed up first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GetUserConfigPath()
			if projectDir != "" {
				path = filepath.Join(projectDir, ".pfind.yaml")
			}
			return runConfigInit(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file after backing it up")
	cmd.Flags().StringVar(&projectDir, "project", "", "Write DIR/.pfind.yaml instead of the user config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [directory]",
		Short: "Show effective configuration",
		Long: `Show the configuration a search of the directory (default: current) would use,
after merging defaults, the user config, the project config, and PFIND_*
environment variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runConfigShow(cmd, dir, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	stdout := cmd.OutOrStdout()

	backupPath := ""
	if fileExists(path) {
		if !force {
			output.New(cmd.ErrOrStderr(), output.ColorAuto).
				Warning(fmt.Sprintf("Configuration already exists at %s (use --force to overwrite)", path))
			return nil
		}

		var err error
		backupPath, err = config.BackupFile(path)
		if err != nil {
			return fmt.Errorf("failed to backup config: %w", err)
		}
	}

	if err := config.NewConfig().WriteYAML(path); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "Created %s\n", path)
	if backupPath != "" {
		_, _ = fmt.Fprintf(stdout, "Backup: %s\n", backupPath)
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, dir string, jsonOutput bool) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
