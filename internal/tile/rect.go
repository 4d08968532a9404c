package tile

import (
	"fmt"
	"sort"
)

// Rect is an axis-aligned footprint on the 1-based cell grid.
type Rect struct {
	X, Y int
	W, H int
}

// Right returns the last column covered by the rect.
func (r Rect) Right() int { return r.X + r.W - 1 }

// Bottom returns the last row covered by the rect.
func (r Rect) Bottom() int { return r.Y + r.H - 1 }

// InBounds reports whether every cell of r lies within [1,cols]x[1,rows].
func (r Rect) InBounds(cols, rows int) bool {
	return r.W >= 1 && r.H >= 1 &&
		r.X >= 1 && r.Y >= 1 &&
		r.Right() <= cols && r.Bottom() <= rows
}

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X <= o.Right() && o.X <= r.Right() &&
		r.Y <= o.Bottom() && o.Y <= r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// ValidateLayout checks the at-rest invariants of a layout: every span is
// positive, every tile lies within the grid and no two tiles overlap.
func ValidateLayout(cols, rows int, placements []Placement) error {
	for _, p := range placements {
		if p.Cols < 1 || p.Rows < 1 {
			return fmt.Errorf("tile %s: %w", p.ID, ErrInvalidSpan)
		}
		if !p.Rect().InBounds(cols, rows) {
			return fmt.Errorf("tile %s %s on %dx%d grid: %w", p.ID, p.Rect(), cols, rows, ErrOutOfBounds)
		}
	}

	// Sort by column so the sweep only compares neighbours that can still overlap.
	sorted := make([]Placement, len(placements))
	copy(sorted, placements)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	for i := 0; i < len(sorted); i++ {
		a := sorted[i].Rect()
		for j := i + 1; j < len(sorted); j++ {
			b := sorted[j].Rect()
			if b.X > a.Right() {
				break
			}
			if a.Overlaps(b) {
				return fmt.Errorf("tiles %s and %s: %w", sorted[i].ID, sorted[j].ID, ErrOverlap)
			}
		}
	}
	return nil
}

// Placements returns the placement of every tile.
func Placements(tiles []*Tile) []Placement {
	out := make([]Placement, len(tiles))
	for i, t := range tiles {
		out[i] = t.Placement()
	}
	return out
}
