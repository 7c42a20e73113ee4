package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.WarnLevel
	opts.ReportTimestamp = false
	logger := New(&buf, opts)

	logger.Info("hidden")
	logger.Warn("shown", "id", 7)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=7") {
		t.Errorf("warn line missing: %q", out)
	}
	if !strings.Contains(out, "tada") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")
	logger, closer, err := OpenFile(path, DefaultOptions())
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	logger.Info("task added", "id", 42)
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "task added") || !strings.Contains(string(b), "id=42") {
		t.Errorf("log file = %q", b)
	}
}

func TestOpenFileEmptyPath(t *testing.T) {
	logger, closer, err := OpenFile("", DefaultOptions())
	if err != nil || logger == nil || closer == nil {
		t.Fatalf("OpenFile(\"\") = %v, %v, %v", logger, closer, err)
	}
}
