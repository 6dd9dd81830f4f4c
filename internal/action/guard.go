package action

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned when the same control is triggered again before its
// previous action finished.
var ErrBusy = errors.New("action already in progress")

// Guard tracks which controls are disabled. Keys name a control, e.g.
// "add" or "toggle:12".
type Guard struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewGuard() *Guard { return &Guard{held: map[string]bool{}} }

// Acquire disables key. The returned release must run on every exit path.
func (g *Guard) Acquire(key string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[key] {
		return nil, fmt.Errorf("%s: %w", key, ErrBusy)
	}
	g.held[key] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}

func (g *Guard) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[key]
}

func AddKey() string                 { return "add" }
func EditKey(id int64) string        { return fmt.Sprintf("edit:%d", id) }
func DeleteKey(id int64) string      { return fmt.Sprintf("delete:%d", id) }
func ToggleKey(id int64) string      { return fmt.Sprintf("toggle:%d", id) }
func UploadKey(id int64) string      { return fmt.Sprintf("upload:%d", id) }
func PhotoDeleteKey(id int64) string { return fmt.Sprintf("photo-delete:%d", id) }
