package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const splashMarkdown = `# Our Dreams ✨

Everything we want to do together, in one place.

- **a** add a dream, **e** edit it, **space** mark it done
- **p** attach photos to a completed dream, **g** browse them
- **d** delete, **r** refresh, **q** quit

Press **Enter** to begin.
`

var (
	splashMu        sync.Mutex
	splashRenderers = map[string]*glamour.TermRenderer{}
)

// splashStyle maps the UI theme onto a glamour standard style. A fixed style
// is used because auto-detection queries the terminal and can stall.
func splashStyle(theme string) string {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "mono":
		return "notty"
	case "light":
		return "light"
	}
	return "dark"
}

func renderSplash(width int, style string) string {
	if width < 20 {
		width = 20
	}
	key := style + ":" + strconv.Itoa(width)

	splashMu.Lock()
	r := splashRenderers[key]
	splashMu.Unlock()
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return splashMarkdown
		}
		splashMu.Lock()
		if existing := splashRenderers[key]; existing != nil {
			r = existing
		} else {
			splashRenderers[key] = rr
			r = rr
		}
		splashMu.Unlock()
	}
	out, err := r.Render(splashMarkdown)
	if err != nil {
		return splashMarkdown
	}
	return strings.TrimRight(out, "\n")
}
