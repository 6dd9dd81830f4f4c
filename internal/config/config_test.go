package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	for _, k := range []string{"DREAMS_API_URL", "DREAMS_NAMES", "DREAMS_HTTP_TIMEOUT", "DREAMS_LOG_FILE"} {
		t.Setenv(k, "") // restores the original on cleanup
		os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Fatalf("base url: %q", cfg.API.BaseURL)
	}
	if cfg.HTTPTimeout() != 0 {
		t.Fatalf("expected no client timeout by default, got %v", cfg.HTTPTimeout())
	}
	if got := cfg.NameSet(); len(got) != 2 {
		t.Fatalf("names: %v", got)
	}
	if !strings.HasSuffix(cfg.Log.File, "dreams.log") {
		t.Fatalf("log file: %q", cfg.Log.File)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DREAMS_API_URL", "https://dreams.example.com/")
	t.Setenv("DREAMS_NAMES", "Kim, Lee")
	t.Setenv("DREAMS_HTTP_TIMEOUT", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://dreams.example.com" {
		t.Fatalf("trailing slash should be trimmed: %q", cfg.API.BaseURL)
	}
	if cfg.HTTPTimeout() != 15*time.Second {
		t.Fatalf("timeout: %v", cfg.HTTPTimeout())
	}
	if n := cfg.NameSet(); n[0] != "Kim" || n[1] != "Lee" {
		t.Fatalf("names: %v", n)
	}
}

func TestSetBaseURL_RejectsBadScheme(t *testing.T) {
	var cfg Config
	cfg.UI.Names = "Alex"
	if err := cfg.SetBaseURL("ftp://example.com"); err == nil {
		t.Fatal("expected scheme error")
	}
	if err := cfg.SetBaseURL("http://127.0.0.1:9999"); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"":      0,
		"10":    10 * time.Second,
		"'5m'":  5 * time.Minute,
		"250ms": 250 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		if err != nil || got != want {
			t.Fatalf("parseDuration(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := parseDuration("soon"); err == nil {
		t.Fatal("expected error")
	}
}
