// Package notify keeps transient toast messages.
package notify

import (
	"sync"
	"time"
)

type Kind int

const (
	Success Kind = iota
	Error
)

const (
	// DisplayFor is how long a toast stays fully visible.
	DisplayFor = 3 * time.Second
	// ExitFor is the exit animation that follows.
	ExitFor = 300 * time.Millisecond
)

type Toast struct {
	ID      uint64
	Kind    Kind
	Message string
	Created time.Time
}

// Leaving reports whether the toast is in its exit phase at now.
func (t Toast) Leaving(now time.Time) bool {
	return !now.Before(t.Created.Add(DisplayFor))
}

// Expired reports whether the toast should be gone at now.
func (t Toast) Expired(now time.Time) bool {
	return !now.Before(t.Created.Add(DisplayFor + ExitFor))
}

// Center stacks toasts. Each one lives on its own timer: no dedupe, no cap.
type Center struct {
	mu     sync.Mutex
	toasts []Toast
	nextID uint64
	now    func() time.Time
}

func NewCenter() *Center { return &Center{now: time.Now} }

// NewCenterAt uses a custom clock.
func NewCenterAt(now func() time.Time) *Center { return &Center{now: now} }

func (c *Center) Push(kind Kind, msg string) Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	t := Toast{ID: c.nextID, Kind: kind, Message: msg, Created: c.now()}
	c.toasts = append(c.toasts, t)
	return t
}

func (c *Center) Success(msg string) Toast { return c.Push(Success, msg) }
func (c *Center) Error(msg string) Toast   { return c.Push(Error, msg) }

// Remove drops one toast; unknown ids are ignored.
func (c *Center) Remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return
		}
	}
}

// Visible returns the current stack, oldest first.
func (c *Center) Visible() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

func (c *Center) Now() time.Time { return c.now() }
