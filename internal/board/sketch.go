package board

import (
	"fmt"
	"strings"
)

const sketchLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Sketch draws the layout as text: one letter per tile in display order,
// '.' for free cells, followed by a legend. Tiles past the last letter are
// drawn as '#'.
func (b *Board) Sketch() string {
	letters := make(map[string]byte, len(b.tiles))
	for i, t := range b.tiles {
		letters[t.ID] = SketchLetter(i)
	}

	g := b.Grid()
	var sb strings.Builder
	for y := 1; y <= b.rows; y++ {
		for x := 1; x <= b.cols; x++ {
			id := g.At(x, y)
			if id == "" {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(letters[id])
		}
		sb.WriteByte('\n')
	}

	if len(b.tiles) > 0 {
		sb.WriteByte('\n')
	}
	for _, t := range b.tiles {
		fmt.Fprintf(&sb, "%c  %-8s %s (%dx%d at %d,%d)\n",
			letters[t.ID], t.Kind, t.Name, t.Cols, t.Rows, t.X, t.Y)
	}
	for _, t := range b.hidden {
		fmt.Fprintf(&sb, "-  %-8s %s (hidden)\n", t.Kind, t.Name)
	}
	return sb.String()
}

// SketchLetter returns the letter Sketch draws for the i-th tile.
func SketchLetter(i int) byte {
	if i < 0 || i >= len(sketchLetters) {
		return '#'
	}
	return sketchLetters[i]
}
