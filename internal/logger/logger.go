package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Config selects where log lines go.
type Config struct {
	// File, when set, receives all log output (the TUI owns stdout/stderr).
	File string
	// Level is a logrus level name: debug, info, warn, error.
	Level string
	// Console sends output to stderr instead of File.
	Console bool
}

var (
	mu      sync.Mutex
	closeFn func() error
	std     = newLogger(io.Discard, log.InfoLevel)
)

func newLogger(w io.Writer, lvl log.Level) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	return l
}

// Setup replaces the package logger. Calling it again closes the previous file.
func Setup(cfg Config) error {
	lvl, err := log.ParseLevel(cfg.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	var (
		out    io.Writer = os.Stderr
		closer func() error
	)
	if !cfg.Console {
		if cfg.File == "" {
			return fmt.Errorf("logger: no file configured")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("logger: mkdir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		out, closer = f, f.Close
	}

	mu.Lock()
	defer mu.Unlock()
	if closeFn != nil {
		_ = closeFn()
	}
	closeFn = closer
	std = newLogger(out, lvl)
	return nil
}

// SetOutput redirects logging to w; tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if closeFn == nil {
		return nil
	}
	err := closeFn()
	closeFn = nil
	std.SetOutput(io.Discard)
	return err
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return std
}

// With returns an entry carrying structured fields, e.g. request ids.
func With(fields log.Fields) *log.Entry { return current().WithFields(fields) }

func LogDebug(message string, v ...any) { current().Debugf(message, v...) }
func LogInfo(message string, v ...any)  { current().Infof(message, v...) }
func LogWarn(message string, v ...any)  { current().Warnf(message, v...) }
func LogError(message string, v ...any) { current().Errorf(message, v...) }
