package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/idilsaglam/dreams/internal/model"
)

// durationSeconds parses env as time.Duration: "10s", "5m" or a bare number of seconds.
// It implements cleanenv.Setter.
type durationSeconds time.Duration

func (d *durationSeconds) SetValue(data string) error {
	v, err := parseDuration(data)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	API     APIConfig
	UI      UIConfig
	Log     LogConfig
	Session string `env:"DREAMS_SESSION" env-default:""`
}

type APIConfig struct {
	// BaseURL is the server origin; the client appends /api.
	BaseURL string `env:"DREAMS_API_URL" env-default:"http://localhost:5000"`
	// Timeout of 0 means requests are never cut short client-side.
	Timeout durationSeconds `env:"DREAMS_HTTP_TIMEOUT" env-default:"0"`
}

type UIConfig struct {
	Names string `env:"DREAMS_NAMES" env-default:"Alex,Sam"`
	Theme string `env:"DREAMS_THEME" env-default:"classic"`
}

type LogConfig struct {
	File  string `env:"DREAMS_LOG_FILE" env-default:""`
	Level string `env:"DREAMS_LOG_LEVEL" env-default:"info"`
}

// Load reads .env (if any) into the process environment, then the Config struct.
func Load() (Config, error) {
	// A missing .env is normal; real env vars still apply.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	base := strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("DREAMS_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("DREAMS_API_URL: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("DREAMS_API_URL: missing host")
	}
	c.API.BaseURL = base
	if len(c.NameSet()) == 0 {
		return fmt.Errorf("DREAMS_NAMES: at least one name is required")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(os.TempDir(), "dreams.log")
	}
	return nil
}

func (c Config) NameSet() model.Names { return model.ParseNames(c.UI.Names) }

func (c Config) HTTPTimeout() time.Duration { return c.API.Timeout.Duration() }

// SetBaseURL overrides the API origin (the --api flag) and re-validates it.
func (c *Config) SetBaseURL(raw string) error {
	c.API.BaseURL = raw
	return c.normalize()
}
