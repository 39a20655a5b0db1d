package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDailyWriterCreatesDatedFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriterWithPrefix(dir, "testsvc", 7)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := filepath.Join(dir, "testsvc-"+time.Now().Format("20060102")+".log")
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log content: got %q", data)
	}
}

func TestDailyWriterPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "testsvc-20200101.log")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}
	unrelated := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(unrelated, []byte("keep"), 0o644); err != nil {
		t.Fatalf("seed unrelated file: %v", err)
	}

	w, err := NewDailyWriterWithPrefix(dir, "testsvc", 7)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale log file should be pruned")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("unrelated file must survive pruning")
	}
}

func TestDailyWriterDefaultsRetention(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDailyWriterWithPrefix(dir, "", 0)
	if err != nil {
		t.Fatalf("NewDailyWriterWithPrefix: %v", err)
	}
	defer w.Close()

	if w.prefix != defaultPrefix {
		t.Errorf("prefix default: got %q, want %q", w.prefix, defaultPrefix)
	}
	if w.retentionDays != 7 {
		t.Errorf("retention default: got %d, want 7", w.retentionDays)
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, writer, err := NewLogger(dir, slog.LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer writer.Close()

	logger.Info("boot complete", "port", 8000)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one log file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "boot complete") {
		t.Errorf("log content: got %q", data)
	}
}

func TestResolveLevelFromEnv(t *testing.T) {
	cases := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"8", slog.Level(8)},
		{"nonsense", slog.LevelWarn},
	}
	for _, tc := range cases {
		t.Setenv(envLogLevel, tc.value)
		if got := resolveLevel(slog.LevelWarn); got != tc.want {
			t.Errorf("resolveLevel(%q): got %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestResolveRetentionDaysFromEnv(t *testing.T) {
	cases := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"14", 14},
		{"0", 7},
		{"-3", 7},
		{"junk", 7},
	}
	for _, tc := range cases {
		t.Setenv(envLogRetention, tc.value)
		if got := resolveRetentionDays(); got != tc.want {
			t.Errorf("resolveRetentionDays(%q): got %d, want %d", tc.value, got, tc.want)
		}
	}
}
