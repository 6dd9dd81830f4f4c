package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette is the set of colors a theme chooses; styles are derived from it.
type palette struct {
	accent, success, pending, errorFg, muted, author, border lipgloss.TerminalColor
}

var palettes = map[string]palette{
	"classic": {
		accent:  lipgloss.Color("12"),
		success: lipgloss.Color("42"),
		pending: lipgloss.Color("214"),
		errorFg: lipgloss.Color("9"),
		muted:   lipgloss.Color("8"),
		author:  lipgloss.Color("176"),
		border:  lipgloss.Color("8"),
	},
	"neon": {
		accent:  lipgloss.Color("51"),
		success: lipgloss.Color("118"),
		pending: lipgloss.Color("227"),
		errorFg: lipgloss.Color("197"),
		muted:   lipgloss.Color("244"),
		author:  lipgloss.Color("213"),
		border:  lipgloss.Color("201"),
	},
	"mono": {
		accent:  lipgloss.NoColor{},
		success: lipgloss.NoColor{},
		pending: lipgloss.NoColor{},
		errorFg: lipgloss.NoColor{},
		muted:   lipgloss.NoColor{},
		author:  lipgloss.NoColor{},
		border:  lipgloss.NoColor{},
	},
}

type styles struct {
	title, muted, accent, success, pending, errorText lipgloss.Style
	author, done, help                                lipgloss.Style

	card, cardSelected lipgloss.Style
	modal              lipgloss.Style
	chip, chipActive   lipgloss.Style
	toastOK, toastErr  lipgloss.Style
	toastLeaving       lipgloss.Style

	boxDone, boxPending string
}

func newStyles(theme string) styles {
	p, ok := palettes[strings.ToLower(strings.TrimSpace(theme))]
	if !ok {
		p = palettes["classic"]
	}
	base := lipgloss.NewStyle()
	return styles{
		title:     base.Bold(true),
		muted:     base.Foreground(p.muted),
		accent:    base.Foreground(p.accent),
		success:   base.Foreground(p.success),
		pending:   base.Foreground(p.pending),
		errorText: base.Foreground(p.errorFg).Bold(true),
		author:    base.Foreground(p.author).Bold(true),
		done:      base.Faint(true).Strikethrough(true),
		help:      base.Faint(true),

		card: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		cardSelected: base.Border(lipgloss.ThickBorder()).
			BorderForeground(p.accent).
			Padding(0, 1),
		modal: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		chip:       base.Padding(0, 1),
		chipActive: base.Padding(0, 1).Bold(true).Reverse(true),
		toastOK: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(p.success).
			Padding(0, 1),
		toastErr: base.Border(lipgloss.RoundedBorder()).
			BorderForeground(p.errorFg).
			Padding(0, 1),
		toastLeaving: base.Faint(true).
			Border(lipgloss.HiddenBorder()).
			Padding(0, 1),

		boxDone:    "☑",
		boxPending: "☐",
	}
}
