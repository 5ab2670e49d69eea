package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug level", "debug", "console"},
		{"info level", "info", "console"},
		{"warn level", "warn", "console"},
		{"error level", "error", "console"},
		{"json format", "info", "json"},
		{"uppercase level", "DEBUG", "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.level, tt.format)
			if Log == nil {
				t.Error("expected Log to be initialized")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level  string
		expect zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"Info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ParseLevel(tt.level); got != tt.expect {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.expect)
			}
			Setup(tt.level, "console")
			if got := zerolog.GlobalLevel(); got != tt.expect {
				t.Errorf("global level after Setup(%q) = %v, want %v", tt.level, got, tt.expect)
			}
		})
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(line), &out); err != nil {
		t.Fatalf("log line is not json: %q: %v", line, err)
	}
	return out
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "debug", "json")
	defer Setup("info", "console")

	Log.With("bench").Info("kernel done",
		"kernel", "simd",
		"n", 1024,
		"err", errors.New("boom"),
		"elapsed", 1500*time.Millisecond,
		"orphan_key",
	)

	got := decodeLine(t, &buf)
	if got["message"] != "kernel done" {
		t.Errorf("message = %v", got["message"])
	}
	if got["component"] != "bench" {
		t.Errorf("component = %v", got["component"])
	}
	if got["kernel"] != "simd" || got["n"] != float64(1024) {
		t.Errorf("fields not attached: %v", got)
	}
	if got["err"] != "boom" {
		t.Errorf("err = %v", got["err"])
	}
	if _, ok := got["elapsed"]; !ok {
		t.Error("expected duration field")
	}
	if _, ok := got["orphan_key"]; ok {
		t.Error("orphan key should be dropped")
	}
}

func TestNonStringKey(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "info", "json")
	defer Setup("info", "console")

	Log.Info("non-string key", 123, "value")
	if got := decodeLine(t, &buf); got["123"] != "value" {
		t.Errorf("expected key 123 to be stringified, got %v", got)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "error", "json")
	defer Setup("info", "console")

	Log.Debug("debug message should be filtered")
	Log.Info("info message should be filtered")
	Log.Warn("warn message should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
	Log.Error("error message should appear")
	if buf.Len() == 0 {
		t.Fatal("expected error output")
	}
}
