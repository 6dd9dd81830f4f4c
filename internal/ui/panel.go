package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ProgressBar draws a fraction in [0,1] followed by the given label, e.g. "60%".
func ProgressBar(fraction float64, width int, label string) string {
	if width < 5 {
		width = 5
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	filled := int(fraction * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %5s", bar, label)
}

// Panel draws a framed box using the current theme. Width is measured in
// terminal cells, so emoji and colored text line up.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := ansi.StringWidth(ln); vw > maxw {
			maxw = vw
		}
	}
	pad := func(s string) string {
		if vw := ansi.StringWidth(s); vw < maxw {
			s += strings.Repeat(" ", maxw-vw)
		}
		return s
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Truncate shortens s to max cells with a trailing ellipsis.
func Truncate(s string, max int) string { return ansi.Truncate(s, max, "...") }
