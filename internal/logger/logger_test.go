package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetup_WritesToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "dreams.log")
	if err := Setup(Config{File: p, Level: "debug"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	LogError("loading items: %s", "boom")
	if err := Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "loading items: boom") || !strings.Contains(string(b), "level=error") {
		t.Fatalf("unexpected log contents: %q", b)
	}
}

func TestWith_AddsFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(Config{Console: true, Level: "info"}); err != nil {
		t.Fatal(err)
	}
	SetOutput(&buf)
	With(log.Fields{"request_id": "abc"}).Info("GET /api/items")
	LogDebug("hidden at info level")
	out := buf.String()
	if !strings.Contains(out, "request_id=abc") {
		t.Fatalf("missing field: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
}

func TestSetup_RequiresFileUnlessConsole(t *testing.T) {
	if err := Setup(Config{}); err == nil {
		t.Fatal("expected error without file")
	}
}
