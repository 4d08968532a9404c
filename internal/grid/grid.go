// Package grid provides the virtual occupancy grid used to answer spatial
// questions about a dashboard layout: which cells are free, which tiles sit
// in an area, and whether a tile can be moved somewhere.
//
// A Grid is a snapshot. It is built from the authoritative tile list and is
// never updated in place; callers rebuild it whenever the list may have
// changed. Building is O(cells), cheap enough to do once per frame.
package grid

import (
	"strings"

	"github.com/javiermolinar/tiledash/internal/tile"
)

// Grid is an immutable cell -> tile id matrix.
// Cells are addressed with 1-based (x, y) = (column, row) coordinates.
type Grid struct {
	cols  int
	rows  int
	cells []string // len = cols*rows, row-major, "" means empty
	tiles map[string]*tile.Tile
}

// New stamps every tile's footprint into a fresh cols x rows matrix.
// Cells outside the grid are dropped. Tiles are assumed not to overlap;
// if they do, the later tile in the list owns the shared cells.
func New(cols, rows int, tiles []*tile.Tile) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]string, cols*rows),
		tiles: make(map[string]*tile.Tile, len(tiles)),
	}

	for _, t := range tiles {
		if t == nil {
			continue
		}
		g.tiles[t.ID] = t
		for r := 0; r < t.Rows; r++ {
			for c := 0; c < t.Cols; c++ {
				x, y := t.X+c, t.Y+r
				if g.InBounds(x, y) {
					g.cells[g.index(x, y)] = t.ID
				}
			}
		}
	}
	return g
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// index calculates the flat slice index for a 1-based cell.
func (g *Grid) index(x, y int) int {
	return (y-1)*g.cols + (x - 1)
}

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 1 && x <= g.cols && y >= 1 && y <= g.rows
}

// At returns the id of the tile owning (x, y), or "" if the cell is empty
// or out of bounds.
func (g *Grid) At(x, y int) string {
	if !g.InBounds(x, y) {
		return ""
	}
	return g.cells[g.index(x, y)]
}

// Tile returns the tile with the given id, or nil.
func (g *Grid) Tile(id string) *tile.Tile {
	return g.tiles[id]
}

// TileAt returns the tile owning (x, y), or nil.
func (g *Grid) TileAt(x, y int) *tile.Tile {
	id := g.At(x, y)
	if id == "" {
		return nil
	}
	return g.tiles[id]
}

// IsAreaFree reports whether the w x h rectangle anchored at (x, y) lies
// inside the grid and contains no cell owned by a tile outside ignore.
func (g *Grid) IsAreaFree(x, y, w, h int, ignore ...string) bool {
	if w < 1 || h < 1 {
		return false
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			cx, cy := x+c, y+r
			if !g.InBounds(cx, cy) {
				return false
			}
			id := g.cells[g.index(cx, cy)]
			if id != "" && !contains(ignore, id) {
				return false
			}
		}
	}
	return true
}

// TilesInArea returns the distinct tiles overlapping the w x h rectangle at
// (x, y), excluding ignore, in row-major order of first encounter.
// Cells outside the grid are skipped.
func (g *Grid) TilesInArea(x, y, w, h int, ignore string) []*tile.Tile {
	var (
		seen  map[string]bool
		found []*tile.Tile
	)
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			cx, cy := x+c, y+r
			if !g.InBounds(cx, cy) {
				continue
			}
			id := g.cells[g.index(cx, cy)]
			if id == "" || id == ignore || seen[id] {
				continue
			}
			if seen == nil {
				seen = make(map[string]bool)
			}
			seen[id] = true
			found = append(found, g.tiles[id])
		}
	}
	return found
}

// FindEmptySlot scans the grid row by row and returns the first position
// where a w x h tile fits.
func (g *Grid) FindEmptySlot(w, h int) (x, y int, ok bool) {
	for cy := 1; cy+h-1 <= g.rows; cy++ {
		for cx := 1; cx+w-1 <= g.cols; cx++ {
			if g.IsAreaFree(cx, cy, w, h) {
				return cx, cy, true
			}
		}
	}
	return 0, 0, false
}

// String renders the matrix one row per line: '.' for an empty cell,
// otherwise the first rune of the owning tile's id.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 1; y <= g.rows; y++ {
		for x := 1; x <= g.cols; x++ {
			id := g.cells[g.index(x, y)]
			if id == "" {
				b.WriteByte('.')
				continue
			}
			b.WriteRune([]rune(id)[0])
		}
		if y < g.rows {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
