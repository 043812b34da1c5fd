package logger

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func newBufferLogger(level LogLevel) (*StdLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &StdLogger{
		logger: log.New(&buf, "", 0),
		level:  level,
	}, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestStdLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)

	l.Debug(context.Background(), "debug message")
	l.Info(context.Background(), "info message")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below Warn level, got %q", buf.String())
	}

	l.Warn(context.Background(), "warn message")
	if !strings.Contains(buf.String(), "[WARN] warn message") {
		t.Errorf("Expected warn output, got %q", buf.String())
	}
}

func TestStdLogger_FieldsAreSorted(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	l.Info(context.Background(), "msg", map[string]interface{}{
		"zebra": 1,
		"alpha": 2,
		"mango": 3,
	})

	out := buf.String()
	if !strings.Contains(out, "alpha=2 mango=3 zebra=1") {
		t.Errorf("Expected sorted fields, got %q", out)
	}
}

func TestStdLogger_ErrorIncludesError(t *testing.T) {
	l, buf := newBufferLogger(LevelDebug)

	l.Error(context.Background(), errors.New("boom"), "operation failed")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] operation failed") || !strings.Contains(out, "error: boom") {
		t.Errorf("Unexpected error output: %q", out)
	}
}
