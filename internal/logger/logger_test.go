package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesStructuredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jless.log")
	t.Setenv("JLESS_LOG_FILE", path)
	t.Cleanup(func() { L, S, logFile = nil, nil, nil })

	if err := Init(true); err != nil {
		t.Fatalf("init: %v", err)
	}
	Info("parse started", "doc", "test.json")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "logger initialized") {
		t.Fatalf("missing init line: %q", out)
	}
	// Key-value pairs come out as named fields, not a Sprint blob.
	if !strings.Contains(out, `"path"`) {
		t.Fatalf("init path not a structured field: %q", out)
	}
	if !strings.Contains(out, `"doc"`) || !strings.Contains(out, "test.json") {
		t.Fatalf("fields not structured: %q", out)
	}
}
