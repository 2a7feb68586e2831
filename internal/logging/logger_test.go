package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	log, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Close() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}
	log.Info("test_message_from_logging_test")
}

func TestSink_WritesBothBackends(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	s, err := newSink(dir, &console)
	if err != nil {
		t.Fatalf("newSink: %v", err)
	}

	s.Info("ping_sent")
	s.Warn("cycle_skipped")
	s.Debug("below_threshold")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := console.String()
	if !strings.Contains(out, "ping_sent") || !strings.Contains(out, "cycle_skipped") {
		t.Fatalf("console missing records: %q", out)
	}
	if strings.Contains(out, "below_threshold") {
		t.Fatalf("debug record should be filtered: %q", out)
	}

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 file records, got %d: %q", len(lines), b)
	}
	if !strings.Contains(lines[0], `"level":"info"`) || !strings.Contains(lines[1], `"level":"warn"`) {
		t.Fatalf("unexpected levels: %q", lines)
	}
}

func TestSink_AppendsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first_run", "second_run"} {
		var console bytes.Buffer
		s, err := newSink(dir, &console)
		if err != nil {
			t.Fatalf("newSink: %v", err)
		}
		s.Info(msg)
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "first_run") || !strings.Contains(string(b), "second_run") {
		t.Fatalf("want both runs in file, got %q", b)
	}
}
