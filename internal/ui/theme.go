package ui

import "strings"

// Theme bundles palette, symbols and box borders. All helpers read Current().
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending, Author string
	BoxPending, BoxDone                                   string
	CornerTL, CornerTR, CornerBL, CornerBR                string
	H, V                                                  string
	SymPhoto                                              string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow, Author: fgMagenta,
		BoxPending: "☐", BoxDone: "☑",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymPhoto: "📸",
	}
}

// Themes lists the names SetTheme understands.
var Themes = []string{"classic", "neon", "mono"}

// SetTheme switches the palette; unknown names fall back to classic.
func SetTheme(name string) {
	disableColor = false
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = Theme{
			Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
			Success: "\033[92m", Error: fgRed, Pending: "\033[93m", Author: "\033[95m",
			BoxPending: "◻", BoxDone: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymPhoto: "📸",
		}
	case "mono":
		disableColor = true
		current = Theme{
			BoxPending: "[ ]", BoxDone: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymPhoto: "photos:",
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }
