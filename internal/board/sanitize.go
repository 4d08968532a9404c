package board

import (
	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// sanitize fits tiles into a cols x rows grid. It returns the tiles that
// were placed and the ones that could not be.
//
// Tiles whose origin is inside the grid keep it and are shrunk to fit. Tiles
// whose origin fell off the grid, or that collide with an earlier tile, are
// relocated to the first free area in a second pass. Earlier tiles win.
func sanitize(cols, rows int, tiles []*tile.Tile) (placed, hidden []*tile.Tile) {
	var relocate []*tile.Tile

	for _, t := range tiles {
		if t.X < 1 || t.Y < 1 || t.X > cols || t.Y > rows {
			relocate = append(relocate, t)
			continue
		}
		w := min(t.Cols, cols-t.X+1)
		h := min(t.Rows, rows-t.Y+1)
		if !grid.New(cols, rows, placed).IsAreaFree(t.X, t.Y, w, h) {
			relocate = append(relocate, t)
			continue
		}
		t.Cols, t.Rows = w, h
		placed = append(placed, t)
	}

	for _, t := range relocate {
		w, h := min(t.Cols, cols), min(t.Rows, rows)
		x, y, ok := grid.New(cols, rows, placed).FindEmptySlot(w, h)
		if !ok {
			hidden = append(hidden, t)
			continue
		}
		t.X, t.Y, t.Cols, t.Rows = x, y, w, h
		placed = append(placed, t)
	}

	return placed, hidden
}
