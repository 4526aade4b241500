package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("logtest")

	SetLevel(Warning)
	logger.Info("hidden message")
	logger.Warning("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("expected info message to be filtered at warning level; got %q", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("expected warning message in output; got %q", out)
	}
	if !strings.Contains(out, "[logtest]") {
		t.Errorf("expected module name in output; got %q", out)
	}
}

func TestSetSinkPreservesLevel(t *testing.T) {
	var buf bytes.Buffer
	SetLevel(Debug)
	defer SetLevel(Notice)

	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("logtest").Debugf("debug %d", 42)
	if !strings.Contains(buf.String(), "debug 42") {
		t.Fatalf("expected debug message after sink swap; got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", Debug},
		{"INFO", Info},
		{"Notice", Notice},
		{"warning", Warning},
		{"error", Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if level != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, level)
			}
		})
	}

	if _, err := ParseLevel("loud"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Expected ErrUnknownLevel, got %v", err)
	}
}

func TestPlainOutputForFiles(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("logtest").Warning("no colors")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("Expected no escape codes outside a terminal; got %q", buf.String())
	}
}
