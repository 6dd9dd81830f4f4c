package notify

import (
	"testing"
	"time"
)

func TestCenter_Lifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenterAt(func() time.Time { return now })

	toast := c.Success("Dream deleted")
	if toast.Leaving(now) || toast.Expired(now) {
		t.Fatal("fresh toast should be fully visible")
	}

	now = now.Add(DisplayFor)
	if !toast.Leaving(now) || toast.Expired(now) {
		t.Fatal("toast should be in its exit phase after 3s")
	}
	if len(c.Visible()) != 1 {
		t.Fatal("toast must stay during exit animation")
	}

	now = now.Add(ExitFor)
	if !toast.Expired(now) {
		t.Fatal("toast should be expired after 3.3s")
	}
	c.Remove(toast.ID)
	if len(c.Visible()) != 0 {
		t.Fatal("expired toast should be gone once removed")
	}
}

func TestCenter_StacksWithoutDedupe(t *testing.T) {
	c := NewCenter()
	for i := 0; i < 12; i++ {
		c.Error("Failed to load items")
	}
	v := c.Visible()
	if len(v) != 12 {
		t.Fatalf("expected 12 stacked toasts, got %d", len(v))
	}
	if v[0].ID >= v[11].ID {
		t.Fatal("expected oldest first")
	}
	c.Remove(v[3].ID)
	c.Remove(9999)
	if len(c.Visible()) != 11 {
		t.Fatal("remove should drop exactly one toast")
	}
}
