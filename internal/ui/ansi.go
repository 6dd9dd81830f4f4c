package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray    = "\033[90m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgRed     = "\033[31m"
	fgMagenta = "\033[35m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

// SetColorForcing overrides terminal detection (--color / --no-color).
func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

// colorOn honors NO_COLOR and dumb terminals through termenv's profile detection.
func colorOn() bool {
	if disableColor {
		return false
	}
	if forceColor {
		return true
	}
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// C wraps s in color when the terminal supports it.
func C(color, s string) string {
	if color == "" || !colorOn() {
		return s
	}
	return color + s + reset
}

// Dim is C with the faint attribute.
func Dim(s string) string { return C(dim, s) }

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(fgGreen, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(fgRed, symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(w io.Writer, msg string) { fmt.Fprintln(w, C(fgGray, "Hint: "+msg)) }
