package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"apistatus/internal/platform/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := logging.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "kind", "auth")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("parsing log output: %v", err)
	}
	if entry["msg"] != "kept" || entry["kind"] != "auth" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "debug", "text")

	logger.Debug("probe finished", "status", 200)

	out := buf.String()
	if !strings.Contains(out, "probe finished") || !strings.Contains(out, "status=200") {
		t.Errorf("unexpected text output %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no color codes when not writing to a terminal")
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Error("expected text output, got JSON")
	}
}
