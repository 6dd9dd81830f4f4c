package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/dreams/internal/render"
)

// cardItem adapts a render.Card to bubbles/list.Item.
type cardItem struct {
	card render.Card
}

func (i cardItem) Title() string       { return i.card.Description }
func (i cardItem) Description() string { return i.card.Author }
func (i cardItem) FilterValue() string { return i.card.Description + " " + i.card.Author }

// cardDelegate draws each dream as three lines: checkbox and text, who and
// when, then the photo strip for completed dreams.
type cardDelegate struct {
	st   styles
	busy func(id int64) bool
}

func (d cardDelegate) Height() int                             { return 3 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	c := it.card
	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	box := d.st.pending.Render(d.st.boxPending)
	desc := c.Description
	if c.Completed {
		box = d.st.success.Render(d.st.boxDone)
		desc = d.st.done.Render(xansi.Truncate(oneLine(desc), width-4, "…"))
	} else {
		desc = xansi.Truncate(oneLine(desc), width-4, "…")
	}
	if d.busy != nil && d.busy(c.ID) {
		box = d.st.muted.Render("…")
	}

	meta := d.st.author.Render(c.Author) + d.st.muted.Render(" · "+c.CreatedLabel)
	if c.CompletedLabel != "" {
		meta += d.st.success.Render(" · ✨ Completed on " + c.CompletedLabel)
	}

	var strip string
	if c.ShowPhotos {
		if c.PhotoCount == "" {
			strip = d.st.muted.Render("📸 no photos yet · p to add")
		} else {
			strip = c.PhotoCount + "  " + d.st.accent.Render(strings.Repeat("▣", len(c.Thumbs)))
			if more := c.MoreLabel(); more != "" {
				strip += " " + d.st.muted.Render(more)
			}
		}
	}

	prefix, pad := "  ", "    "
	if index == m.Index() {
		prefix = d.st.accent.Bold(true).Render("▌ ")
		pad = d.st.accent.Render("▌") + "   "
	}
	fmt.Fprintf(w, "%s%s %s\n%s%s\n%s%s", prefix, box, desc, pad, meta, pad, strip)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
