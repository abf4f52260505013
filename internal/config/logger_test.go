package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")

	log.Info("hidden message")
	log.Warn("shown message", "package", "foo")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown message") || !strings.Contains(out, "package=foo") {
		t.Errorf("warn line missing or without fields: %q", out)
	}
	if !strings.Contains(out, "cask") {
		t.Errorf("output missing prefix: %q", out)
	}
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "chatty")

	log.Debug("debug line")
	log.Info("info line")

	out := buf.String()
	if strings.Contains(out, "debug line") || !strings.Contains(out, "info line") {
		t.Errorf("unexpected output for fallback level: %q", out)
	}
}

func TestNopLogger(t *testing.T) {
	log := NopLogger()
	log.Debug("x")
	log.Info("x", "k", "v")
	log.Warn("x")
	log.Error("x")
}
