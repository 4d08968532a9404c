// Package tui provides the terminal user interface for tiledash.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tiledash/internal/tile"
	"github.com/javiermolinar/tiledash/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color

	// Header
	TitleStyle     lipgloss.Style
	EditBadgeStyle lipgloss.Style
	DirtyStyle     lipgloss.Style

	// Grid cells
	BgStyle        lipgloss.Style
	EmptyCellStyle lipgloss.Style // free cell while editing
	SourceStyle    lipgloss.Style // original footprint of the dragged tile
	HandleStyle    lipgloss.Style

	// Drag ghosts
	GhostValidStyle     lipgloss.Style
	GhostInvalidStyle   lipgloss.Style
	GhostDisplacedStyle lipgloss.Style

	// Footer
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	HiddenStyle lipgloss.Style

	// Modal
	ModalStyle            lipgloss.Style
	ModalBackdropColor    lipgloss.Color
	ModalTitleStyle       lipgloss.Style
	ModalLabelStyle       lipgloss.Style
	ModalHintStyle        lipgloss.Style
	ModalInputTextStyle   lipgloss.Style
	ModalInputCursorStyle lipgloss.Style
	ModalPlaceholderStyle lipgloss.Style
	KindActiveStyle       lipgloss.Style
	KindInactiveStyle     lipgloss.Style

	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	palette := theme.NewPalette(t)
	s := &Styles{
		palette:          palette,
		colorBg:          palette.Bg,
		colorBgHighlight: palette.BgHighlight,
		colorFg:          palette.Fg,
		colorFgMuted:     palette.FgMuted,
		colorAccent:      palette.Accent,
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)
	s.EditBadgeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.TextOnWarning).
		Background(palette.Warning).
		Padding(0, 1)
	s.DirtyStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(s.colorBg)

	s.BgStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)
	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBgHighlight)
	s.SourceStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(palette.BgSelection).
		Italic(true)
	s.HandleStyle = lipgloss.NewStyle().
		Foreground(palette.Warning)

	s.GhostValidStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnValid).
		Background(palette.ValidBg).
		Bold(true)
	s.GhostInvalidStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnInvalid).
		Background(palette.InvalidBg).
		Bold(true)
	s.GhostDisplacedStyle = lipgloss.NewStyle().
		Foreground(palette.Displaced).
		Background(palette.DisplacedBg).
		Italic(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(palette.Warning).
		Background(s.colorBg).
		Bold(true)
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)
	s.HiddenStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Italic(true)

	modal := palette.Modal
	s.ModalBackdropColor = modal.Backdrop
	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 2).
		Width(48)
	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)
	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)
	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg).
		Italic(true)
	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)
	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modal.Highlight)
	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)
	s.KindActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.ReverseText).
		Background(modal.Highlight).
		Padding(0, 1)
	s.KindInactiveStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg).
		Padding(0, 1)

	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		Padding(0, 1)

	return s
}

// TileStyle returns the body style of a tile of kind k.
func (s *Styles) TileStyle(k tile.Kind, focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.palette.KindBg(k, focused))
}

// TileHeaderStyle returns the style of a tile's title row.
func (s *Styles) TileHeaderStyle(k tile.Kind, focused bool) lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(true).
		Foreground(s.palette.KindColor(k)).
		Background(s.palette.KindBg(k, focused))
	if focused {
		st = st.Underline(true)
	}
	return st
}
