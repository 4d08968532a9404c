// Package drag turns pointer events into layout changes.
//
// A Controller owns at most one Session at a time. Pointer moves only record
// the latest position; feasibility is computed in Frame, which the host calls
// at most once per scheduled frame. The authoritative layout is written once,
// on pointer-up.
package drag

import (
	"fmt"
	"math"

	"github.com/javiermolinar/tiledash/internal/tile"
)

// Mode is the drag state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeMove
	ModeResize
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeResize:
		return "resize"
	default:
		return "idle"
	}
}

// Point is a pointer position in host units: pixels, or terminal cells.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

// Metrics maps host units to grid cells.
type Metrics struct {
	OriginX float64 // host position of the grid's top-left corner
	OriginY float64
	CellW   float64 // size of one cell in host units
	CellH   float64
}

func (m Metrics) cellW() float64 {
	if m.CellW <= 0 {
		return 1
	}
	return m.CellW
}

func (m Metrics) cellH() float64 {
	if m.CellH <= 0 {
		return 1
	}
	return m.CellH
}

// Cell returns the 1-based cell containing p. The result may lie outside the
// grid.
func (m Metrics) Cell(p Point) (x, y int) {
	x = int(math.Floor((p.X-m.OriginX)/m.cellW())) + 1
	y = int(math.Floor((p.Y-m.OriginY)/m.cellH())) + 1
	return x, y
}

// CellOrigin returns the host position of the top-left corner of cell (x, y).
func (m Metrics) CellOrigin(x, y int) Point {
	return Point{
		X: m.OriginX + float64(x-1)*m.cellW(),
		Y: m.OriginY + float64(y-1)*m.cellH(),
	}
}

// steps converts a pointer displacement into whole cells, rounding to the
// nearest cell.
func (m Metrics) steps(from, to Point) (dx, dy int) {
	dx = int(math.Round((to.X - from.X) / m.cellW()))
	dy = int(math.Round((to.Y - from.Y) / m.cellH()))
	return dx, dy
}

// Target is what a pointer-down landed on.
type Target struct {
	TileID string
	Handle bool // the resize handle rather than the tile body
}

// GhostKind tags a preview rectangle.
type GhostKind int

const (
	GhostValid     GhostKind = iota // proposed destination of the dragged tile
	GhostInvalid                    // blocked destination
	GhostDisplaced                  // where an occupant would be pushed
)

func (k GhostKind) String() string {
	switch k {
	case GhostInvalid:
		return "invalid"
	case GhostDisplaced:
		return "displaced"
	default:
		return "valid"
	}
}

// Ghost is a non-authoritative preview of a tile position.
type Ghost struct {
	TileID string
	Kind   GhostKind
	Rect   tile.Rect
}
