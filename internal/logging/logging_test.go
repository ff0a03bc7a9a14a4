package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewWithWriterEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("info", &buf)

	logger.Info("event checked", "event", "welcome", "satisfied", true)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["msg"] != "event checked" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["event"] != "welcome" {
		t.Fatalf("event = %v", record["event"])
	}
}

func TestNewWithWriterHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("error", &buf)

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info record emitted at error level: %q", buf.String())
	}

	logger.Error("kept")
	if buf.Len() == 0 {
		t.Fatal("error record suppressed")
	}
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Error("goes nowhere")
}
