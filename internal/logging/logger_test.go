package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("hidden")
	l.Warn("shown", "row", 3)
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "row=3") {
		t.Fatalf("output = %q", out)
	}
	if _, err := New(&buf, "loud"); err == nil {
		t.Fatal("expected bad level error")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "artistify.log")
	l, closeFn, err := Open(path, "debug")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Debug("written")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "written") {
		t.Fatalf("log file = %q, %v", data, err)
	}
}
