// Package session keeps per-terminal-session state, such as whether the
// welcome splash was already acknowledged. State is gone when the temp dir is
// cleaned; a new terminal session gets a new key.
package session

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/store/jsonstore"
)

// State is the persisted document.
type State struct {
	SplashSeen   bool       `json:"splash_seen"`
	SplashSeenAt *time.Time `json:"splash_seen_at,omitempty"`
}

type Store struct {
	path string
	now  func() time.Time
}

// ResolveKey picks the session key: explicit (DREAMS_SESSION) wins, then the
// terminal's TERM_SESSION_ID, then the parent process id (the shell).
func ResolveKey(explicit string) string {
	if k := sanitize(explicit); k != "" {
		return k
	}
	if k := sanitize(os.Getenv("TERM_SESSION_ID")); k != "" {
		return k
	}
	return "ppid-" + strconv.Itoa(os.Getppid())
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

// Path is where the state for key lives.
func Path(key string) string {
	return filepath.Join(os.TempDir(), "dreams-session-"+key+".json")
}

// New opens the store for the resolved key.
func New(key string) *Store { return NewAt(Path(key)) }

// NewAt opens a store backed by an explicit file.
func NewAt(path string) *Store { return &Store{path: path, now: time.Now} }

func (s *Store) Path() string { return s.path }

func (s *Store) load() State {
	var st State
	if _, err := jsonstore.Load(s.path, &st); err != nil {
		logger.LogWarn("reading session state %s: %v", s.path, err)
		return State{}
	}
	return st
}

// SplashSeen reports whether the splash was acknowledged in this session.
// Unreadable state counts as not seen.
func (s *Store) SplashSeen() bool { return s.load().SplashSeen }

// MarkSplashSeen persists the acknowledgement.
func (s *Store) MarkSplashSeen() error {
	st := s.load()
	now := s.now()
	st.SplashSeen = true
	st.SplashSeenAt = &now
	return jsonstore.Save(s.path, st)
}
