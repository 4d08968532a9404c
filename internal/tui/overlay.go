package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeOverlay draws box centered on top of base, which is first padded or
// cut to width x height. Rows outside the box keep the base content.
func placeOverlay(base string, width, height int, box string) string {
	if box == "" || width <= 0 || height <= 0 {
		return base
	}

	baseLines := normalizeLines(base, width, height)
	boxLines := strings.Split(strings.TrimRight(box, "\n"), "\n")

	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	boxW = min(boxW, width)
	boxH := min(len(boxLines), height)

	top := max((height-boxH)/2, 0)
	left := max((width-boxW)/2, 0)

	for i := 0; i < boxH; i++ {
		row := top + i
		line := boxLines[i]
		if w := lipgloss.Width(line); w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += strings.Repeat(" ", boxW-w)
		}
		baseLine := baseLines[row]
		baseLines[row] = ansi.Cut(baseLine, 0, left) + line + ansi.Cut(baseLine, left+boxW, width)
	}

	return strings.Join(baseLines, "\n")
}

// normalizeLines splits s into exactly height lines of exactly width cells.
func normalizeLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	for i, line := range lines {
		w := lipgloss.Width(line)
		switch {
		case w > width:
			lines[i] = ansi.Cut(line, 0, width)
		case w < width:
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return lines
}
