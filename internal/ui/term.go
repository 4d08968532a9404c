package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// Color definitions for consistent styling across the UI.
var (
	colorLink    = color.New(color.FgBlue, color.Bold)
	colorNote    = color.New(color.FgCyan)
	colorService = color.New(color.FgGreen)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Layout changes that went through
	colorOK = color.New(color.FgGreen)

	// Blocked moves and hidden tiles
	colorWarn = color.New(color.FgYellow)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatKind colors a widget kind name.
func formatKind(k tile.Kind) string {
	switch k {
	case tile.KindLink:
		return colorLink.Sprint(string(k))
	case tile.KindNote:
		return colorNote.Sprint(string(k))
	default:
		return colorService.Sprint(string(k))
	}
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatOutcome colors a proposal outcome.
func formatOutcome(o grid.Outcome) string {
	if o == grid.OutcomeBlocked {
		return formatWarn(o.String())
	}
	return formatOK(o.String())
}
