package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// defaultWidth is assumed when stdout is not a terminal or its size cannot
// be read.
const defaultWidth = 80

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Width returns the terminal width for table layout, or defaultWidth when
// stdout is not a terminal.
func Width() int {
	if !IsTerminal() {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// ShouldUseColor reports whether output should be colored.
//
// Precedence: NO_COLOR (set at all) disables, CLICOLOR_FORCE (non-zero)
// enables, CLICOLOR=0 disables, otherwise color requires a terminal with a
// non-ASCII color profile.
func ShouldUseColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	return IsTerminal() && termenv.ColorProfile() != termenv.Ascii
}

// SetColorEnabled forces color on or off for the process, overriding
// detection. The --no-color flag and non-terminal output both route through
// here.
func SetColorEnabled(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}
