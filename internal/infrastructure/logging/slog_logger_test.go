package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
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
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("esperava %v, obteve %v", tt.expected, got)
			}
		})
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLoggerTo(&buf, "info").With("component", "users")

	logger.Debug("ignorado")
	logger.Info("user created", "user_id", "42")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("esperava uma única linha JSON, obteve %q: %v", buf.String(), err)
	}
	if entry["msg"] != "user created" {
		t.Errorf("esperava msg 'user created', obteve %v", entry["msg"])
	}
	if entry["component"] != "users" || entry["user_id"] != "42" {
		t.Errorf("atributos ausentes: %v", entry)
	}
}
