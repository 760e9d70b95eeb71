package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefaultLogDir_XDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	if got := DefaultLogDir(); got != filepath.Join("/tmp/state", "pfind") {
		t.Errorf("DefaultLogDir() = %s, want /tmp/state/pfind", got)
	}
}

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	if filepath.Base(path) != "pfind.log" {
		t.Errorf("DefaultLogPath should end with pfind.log, got: %s", path)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "warn" {
		t.Errorf("expected level 'warn', got: %s", cfg.Level)
	}
	if cfg.Format != FormatText {
		t.Errorf("expected format 'text', got: %s", cfg.Format)
	}
	if cfg.FilePath != "" {
		t.Errorf("expected no log file by default, got: %s", cfg.FilePath)
	}
	if !cfg.WriteToStderr {
		t.Error("expected WriteToStderr to be true")
	}
}

func TestDebugConfig(t *testing.T) {
	if cfg := DebugConfig(); cfg.Level != "debug" {
		t.Errorf("expected level 'debug', got: %s", cfg.Level)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelWarn, true},
	}

	for _, tc := range tests {
		level, err := ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if level != tc.expected {
			t.Errorf("ParseLevel(%q) = %s, want %s", tc.input, level, tc.expected)
		}
	}
}

func TestSetup_TextToStderr(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Stderr = &buf

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("skipping unreadable directory", slog.String("path", "/x"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level, got: %s", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "path=/x") {
		t.Errorf("expected text warn record, got: %s", out)
	}
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := DebugConfig()
	cfg.Format = FormatJSON
	cfg.Stderr = &buf

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer cleanup()

	logger.Debug("search started", slog.Int("workers", 4))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "search started" || rec["workers"] != float64(4) {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestSetup_FileOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "test.log")

	cfg := Config{
		Level:    "debug",
		FilePath: logPath,
	}

	logger, cleanup, err := Setup(cfg)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("test message")
	cleanup()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(content), "test message") {
		t.Errorf("log file missing record: %s", content)
	}
}

func TestSetup_NoOutputs(t *testing.T) {
	logger, cleanup, err := Setup(Config{Level: "debug"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	defer cleanup()

	logger.Error("goes nowhere")
}

func TestSetup_InvalidConfig(t *testing.T) {
	if _, _, err := Setup(Config{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, _, err := Setup(Config{Level: "info", Format: "xml", WriteToStderr: true}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetupDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Stderr = &buf

	cleanup, err := SetupDefault(cfg)
	if err != nil {
		t.Fatalf("SetupDefault failed: %v", err)
	}
	defer cleanup()

	slog.Warn("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not installed, got: %s", buf.String())
	}
}

// ============================================================================
// Writer Rotation Tests
// ============================================================================

func TestRotatingWriter_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")

	// 0 MB: every write after the first rotates
	w, err := NewRotatingWriter(logPath, 0, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"first\n", "second\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	current, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("main log file should exist: %v", err)
	}
	if string(current) != "second\n" {
		t.Errorf("current log = %q, want %q", current, "second\n")
	}

	rotated, err := os.ReadFile(logPath + ".1")
	if err != nil {
		t.Fatalf("rotated file .1 should exist: %v", err)
	}
	if string(rotated) != "first\n" {
		t.Errorf("rotated log = %q, want %q", rotated, "first\n")
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "maxfiles.log")

	w, err := NewRotatingWriter(logPath, 0, 2)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	for i := 0; i < 6; i++ {
		if _, err := fmt.Fprintf(w, "line %d\n", i); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	for _, suffix := range []string{"", ".1", ".2"} {
		if _, err := os.Stat(logPath + suffix); err != nil {
			t.Errorf("expected %s to exist: %v", logPath+suffix, err)
		}
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("rotated file .3 should not exist (beyond maxFiles)")
	}

	oldest, _ := os.ReadFile(logPath + ".2")
	if string(oldest) != "line 3\n" {
		t.Errorf("oldest kept backup = %q, want %q", oldest, "line 3\n")
	}
}

func TestRotatingWriter_AppendsToExistingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "existing.log")
	if err := os.WriteFile(logPath, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	_, _ = w.Write([]byte("new\n"))
	_ = w.Close()

	content, _ := os.ReadFile(logPath)
	if string(content) != "old\nnew\n" {
		t.Errorf("content = %q, want appended", content)
	}
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("expected error writing to closed writer")
	}
	if err := w.Sync(); err != nil {
		t.Errorf("sync after close should be a no-op, got: %v", err)
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "concurrent.log")

	w, err := NewRotatingWriter(logPath, 10, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = fmt.Fprintf(w, "{\"id\":%d,\"iter\":%d}\n", id, j)
			}
		}(i)
	}
	wg.Wait()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if lines := strings.Count(string(content), "\n"); lines != 1000 {
		t.Errorf("expected 1000 lines, got %d", lines)
	}
}
