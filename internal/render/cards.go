// Package render turns the cached item list into display-ready cards and
// markup. Everything here is a pure function of its input.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/idilsaglam/dreams/internal/model"
)

// MaxThumbs is how many photos a card shows before "+N more".
const MaxThumbs = 5

const dateLayout = "Jan 2, 2006"

// Card is one grid entry.
type Card struct {
	ID             int64
	Completed      bool
	Author         string
	Description    string
	CreatedLabel   string
	CompletedLabel string // empty unless completed with a timestamp

	// Photo section; only populated for completed items.
	ShowPhotos    bool
	Thumbs        []Thumb
	More          int
	PhotoCount    string
	AddPhotoLabel string
}

type Thumb struct {
	PhotoID int64
	URL     string
}

// MoreLabel is the overflow indicator, e.g. "+3 more".
func (c Card) MoreLabel() string {
	if c.More <= 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", c.More)
}

// URLFunc maps a server-relative photo path to something displayable.
type URLFunc func(photoPath string) string

// RootRelative renders photo paths the way the browser would: "/" + path.
func RootRelative(p string) string { return "/" + p }

// Cards builds the grid. loc is used for date labels; nil means UTC.
func Cards(items []model.Item, photoURL URLFunc, loc *time.Location) []Card {
	if photoURL == nil {
		photoURL = RootRelative
	}
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Card, 0, len(items))
	for _, it := range items {
		out = append(out, card(it, photoURL, loc))
	}
	return out
}

func card(it model.Item, photoURL URLFunc, loc *time.Location) Card {
	c := Card{
		ID:           it.ID,
		Completed:    it.IsCompleted,
		Author:       it.AddedBy,
		Description:  it.Description,
		CreatedLabel: formatDate(it.CreatedAt.Time, loc),
	}
	if it.IsCompleted && it.CompletedAt != nil && !it.CompletedAt.IsZero() {
		c.CompletedLabel = formatDate(it.CompletedAt.Time, loc)
	}
	if !it.IsCompleted {
		return c
	}

	c.ShowPhotos = true
	c.AddPhotoLabel = "Add Photo"
	n := len(it.Photos)
	if n == 0 {
		return c
	}
	c.AddPhotoLabel = "Add More Photos"
	shown := it.Photos
	if n > MaxThumbs {
		shown = it.Photos[:MaxThumbs]
		c.More = n - MaxThumbs
	}
	for _, p := range shown {
		c.Thumbs = append(c.Thumbs, Thumb{PhotoID: p.ID, URL: photoURL(p.PhotoPath)})
	}
	c.PhotoCount = PhotoCountLabel(n)
	return c
}

// PhotoCountLabel reads "📸 1 photo" / "📸 N photos".
func PhotoCountLabel(n int) string {
	if n == 1 {
		return "📸 1 photo"
	}
	return fmt.Sprintf("📸 %d photos", n)
}

func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

// Stats is the header counters plus progress bar width.
type Stats struct {
	Total     string
	Pending   string
	Completed string
	Percent   string // "60%"
	// Fraction is the bar fill in [0,1].
	Fraction float64
	// BarWidth is the CSS width value, e.g. "60%".
	BarWidth string
}

// StatsView formats server stats for display. The percentage is clamped to 0–100.
func StatsView(st model.Stats) Stats {
	p := st.CompletionPercentage
	if math.IsNaN(p) || p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	pct := strconv.FormatFloat(p, 'f', -1, 64) + "%"
	return Stats{
		Total:     strconv.Itoa(st.Total),
		Pending:   strconv.Itoa(st.Pending),
		Completed: strconv.Itoa(st.Completed),
		Percent:   pct,
		Fraction:  p / 100,
		BarWidth:  pct,
	}
}

// CharCount is the live counter under description inputs, e.g. "12/500".
func CharCount(s string) string {
	return fmt.Sprintf("%d/%d", len([]rune(s)), model.MaxDescriptionLen)
}

// PreviewNames caps a file selection preview at max entries and returns the
// "+N more" remainder label (empty when nothing is hidden).
func PreviewNames(names []string, max int) ([]string, string) {
	if len(names) <= max {
		return names, ""
	}
	return names[:max], fmt.Sprintf("+%d more", len(names)-max)
}
