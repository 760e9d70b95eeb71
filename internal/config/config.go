// Package config loads pfind's layered configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
	"github.com/Aman-CERP/pfind/internal/ignore"
	"github.com/Aman-CERP/pfind/internal/logging"
	"github.com/Aman-CERP/pfind/internal/pattern"
)

// Project config file names, in lookup order.
var projectFiles = []string{".pfind.yaml", ".pfind.yml"}

// Config is the complete pfind configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Ignore  IgnoreConfig  `yaml:"ignore" json:"ignore"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchConfig configures traversal and matching.
type SearchConfig struct {
	// Threads is the number of scanner workers (0 = one per CPU).
	Threads int `yaml:"threads" json:"threads"`

	// MaxDepth limits recursion below the root (-1 = unlimited, 0 = root
	// entries only).
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// CaseSensitive makes name matching case-sensitive (default: false).
	CaseSensitive bool `yaml:"case_sensitive" json:"case_sensitive"`

	// Regex treats the pattern as an unanchored regular expression instead
	// of a glob.
	Regex bool `yaml:"regex" json:"regex"`

	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool `yaml:"follow_symlinks" json:"follow_symlinks"`
}

// IgnoreConfig configures the root ignore file.
type IgnoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	File    string `yaml:"file" json:"file"`

	// CacheSize bounds the compiled pattern cache shared by ignore rules
	// and the search pattern.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// OutputConfig configures result printing.
type OutputConfig struct {
	// Sort prints results in lexical order instead of discovery order.
	Sort bool `yaml:"sort" json:"sort"`
	// Quiet suppresses the summary on stderr.
	Quiet bool `yaml:"quiet" json:"quiet"`
	// Color styles the summary: auto (terminal only), always, never.
	Color string `yaml:"color" json:"color"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	Format    string `yaml:"format" json:"format"`
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchConfig{
			Threads:  runtime.NumCPU(),
			MaxDepth: -1,
		},
		Ignore: IgnoreConfig{
			Enabled:   true,
			File:      ignore.FileName,
			CacheSize: pattern.DefaultCacheSize,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Logging: LoggingConfig{
			Level:     "warn",
			Format:    logging.FormatText,
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/pfind/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/pfind/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pfind", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "pfind", "config.yaml")
	}
	return filepath.Join(home, ".config", "pfind", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds the configuration for a search rooted at dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/pfind/config.yaml)
//  3. Project config (.pfind.yaml in dir)
//  4. Environment variables (PFIND_*)
//
// Command-line flags are applied by the caller on top of the result, so Load
// does not validate ranges: call Validate once the flags are in.
// Every failure is an ERR_102_CONFIG_INVALID SearchError.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
func ProjectConfigPath(dir string) string {
	for _, name := range projectFiles {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func (c *Config) loadFromDir(dir string) error {
	if dir == "" {
		return nil
	}
	if p := ProjectConfigPath(dir); p != "" {
		return c.loadYAML(p)
	}
	return nil
}

// loadYAML decodes path over c. Keys absent from the file keep their current
// values, so explicit zeros and falses in the file still override.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return serrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err).
			WithDetail("path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return serrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path).
			WithSuggestion("Run 'pfind config show' to see the expected keys")
	}
	return nil
}

// applyEnvOverrides applies PFIND_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PFIND_THREADS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envError("PFIND_THREADS", v, err)
		}
		c.Search.Threads = n
	}
	if v := os.Getenv("PFIND_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return envError("PFIND_MAX_DEPTH", v, err)
		}
		c.Search.MaxDepth = n
	}
	if v := os.Getenv("PFIND_CASE_SENSITIVE"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return envError("PFIND_CASE_SENSITIVE", v, err)
		}
		c.Search.CaseSensitive = b
	}
	if v := os.Getenv("PFIND_FOLLOW_SYMLINKS"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return envError("PFIND_FOLLOW_SYMLINKS", v, err)
		}
		c.Search.FollowSymlinks = b
	}
	if v := os.Getenv("PFIND_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PFIND_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

func envError(name, value string, err error) error {
	return serrors.ConfigError(fmt.Sprintf("invalid value %q for %s", value, name), err).
		WithDetail("env", name)
}

// parseBool accepts strconv.ParseBool forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Search.Threads < 0 {
		return serrors.ConfigError(fmt.Sprintf("search.threads must be non-negative, got %d", c.Search.Threads), nil)
	}
	if c.Search.MaxDepth < -1 {
		return serrors.ConfigError(fmt.Sprintf("search.max_depth must be -1 (unlimited) or greater, got %d", c.Search.MaxDepth), nil)
	}
	if c.Ignore.CacheSize <= 0 {
		return serrors.ConfigError(fmt.Sprintf("ignore.cache_size must be positive, got %d", c.Ignore.CacheSize), nil)
	}
	if strings.ContainsAny(c.Ignore.File, `/\`) {
		return serrors.ConfigError(fmt.Sprintf("ignore.file must be a file name in the search root, got %s", c.Ignore.File), nil)
	}

	switch strings.ToLower(c.Output.Color) {
	case "", "auto", "always", "never":
	default:
		return serrors.ConfigError(fmt.Sprintf("output.color must be 'auto', 'always', or 'never', got %s", c.Output.Color), nil)
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return serrors.ConfigError("logging.level is invalid", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return serrors.ConfigError(fmt.Sprintf("logging.format must be 'text' or 'json', got %s", c.Logging.Format), nil)
	}

	return nil
}

// Workers returns the effective worker count.
func (c *Config) Workers() int {
	if c.Search.Threads <= 0 {
		return runtime.NumCPU()
	}
	return c.Search.Threads
}

// LogConfig converts the logging section for logging.Setup.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{
		Level:         c.Logging.Level,
		Format:        c.Logging.Format,
		FilePath:      c.Logging.File,
		MaxSizeMB:     c.Logging.MaxSizeMB,
		MaxFiles:      c.Logging.MaxFiles,
		WriteToStderr: true,
	}
}

// WriteYAML writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
