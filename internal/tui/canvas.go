package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-size grid of runes, each painted with one of a small
// set of styles. Later paints win. Rows render as runs of equal style.
type canvas struct {
	w, h   int
	runes  []rune
	style  []int
	styles []lipgloss.Style
}

func newCanvas(w, h int, bg lipgloss.Style, fill rune) *canvas {
	w, h = max(w, 0), max(h, 0)
	c := &canvas{
		w:      w,
		h:      h,
		runes:  make([]rune, w*h),
		style:  make([]int, w*h),
		styles: []lipgloss.Style{bg},
	}
	for i := range c.runes {
		c.runes[i] = fill
	}
	return c
}

// addStyle registers st and returns its handle.
func (c *canvas) addStyle(st lipgloss.Style) int {
	c.styles = append(c.styles, st)
	return len(c.styles) - 1
}

// fill paints a w x h rectangle at 0-based (x, y), clipped to the canvas.
func (c *canvas) fill(x, y, w, h int, ch rune, style int) {
	for row := max(y, 0); row < min(y+h, c.h); row++ {
		for col := max(x, 0); col < min(x+w, c.w); col++ {
			i := row*c.w + col
			c.runes[i] = ch
			c.style[i] = style
		}
	}
}

// text writes s starting at (x, y), truncated to maxW cells.
func (c *canvas) text(x, y, maxW int, s string, style int) {
	if y < 0 || y >= c.h || maxW <= 0 {
		return
	}
	s = ansi.Truncate(s, maxW, "…")
	col := x
	for _, r := range s {
		if col >= c.w || col >= x+maxW {
			break
		}
		if col >= 0 {
			i := y*c.w + col
			c.runes[i] = r
			c.style[i] = style
		}
		col++
	}
}

// set paints a single cell.
func (c *canvas) set(x, y int, r rune, style int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	i := y*c.w + x
	c.runes[i] = r
	c.style[i] = style
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	var run strings.Builder
	for row := 0; row < c.h; row++ {
		var line strings.Builder
		start := row * c.w
		for col := 0; col < c.w; {
			st := c.style[start+col]
			run.Reset()
			for col < c.w && c.style[start+col] == st {
				run.WriteRune(c.runes[start+col])
				col++
			}
			line.WriteString(c.styles[st].Render(run.String()))
		}
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	lines := make([]string, c.h)
	for row := 0; row < c.h; row++ {
		lines[row] = string(c.runes[row*c.w : (row+1)*c.w])
	}
	return strings.Join(lines, "\n")
}
