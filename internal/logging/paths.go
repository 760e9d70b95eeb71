package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the directory used for --log-file without a path:
// $XDG_STATE_HOME/pfind, else ~/.local/state/pfind.
// Falls back to the temp directory if home directory is unavailable.
func DefaultLogDir() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "pfind")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pfind")
	}
	return filepath.Join(home, ".local", "state", "pfind")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "pfind.log")
}
