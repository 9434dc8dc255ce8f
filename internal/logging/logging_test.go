package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"", log.InfoLevel},
		{"bogus", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json: want JSONFormatter")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt: want LogfmtFormatter")
	}
	if ParseFormatter("") != log.TextFormatter {
		t.Error("empty: want TextFormatter")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "error", Format: "text"})

	logger.Info("hidden")
	logger.Error("shown", "path", "/todos")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line leaked through error level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "/todos") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tada.log")

	logger, closer, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger.Error("first")
	closer.Close()

	logger, closer, err = Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open again: %v", err)
	}
	logger.Error("second")
	closer.Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "first") || !strings.Contains(string(b), "second") {
		t.Errorf("log file = %q, want both lines", b)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, _, err := Open("", DefaultOptions()); err == nil {
		t.Fatal("want error for empty path")
	}
}
