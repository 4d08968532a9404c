package grid

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/tiledash/internal/tile"
)

// Outcome tags the kind of rearrangement a Proposal describes.
type Outcome int

const (
	OutcomeBlocked Outcome = iota
	OutcomeMove            // destination was free
	OutcomeSwap            // occupants are displaced to make room
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMove:
		return "move"
	case OutcomeSwap:
		return "swap"
	default:
		return "blocked"
	}
}

// Reason explains why a Proposal is blocked.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonBounds
	ReasonCollision
)

func (r Reason) String() string {
	switch r {
	case ReasonBounds:
		return "bounds"
	case ReasonCollision:
		return "collision"
	default:
		return ""
	}
}

// Displacement moves an occupant out of the way of the dragged tile.
type Displacement struct {
	Tile *tile.Tile
	X    int
	Y    int
}

// Rect returns the footprint of the displaced tile at its new position.
func (d Displacement) Rect() tile.Rect {
	return d.Tile.RectAt(d.X, d.Y)
}

// Proposal is the result of a feasibility query. It never mutates tiles;
// the caller decides whether to commit it.
type Proposal struct {
	Outcome   Outcome
	Reason    Reason // set when Outcome is OutcomeBlocked
	X         int    // destination of the dragged tile
	Y         int
	Displaced []Displacement
}

func blocked(reason Reason) Proposal {
	return Proposal{Outcome: OutcomeBlocked, Reason: reason}
}

// Possible reports whether the proposal can be committed.
func (p Proposal) Possible() bool {
	return p.Outcome != OutcomeBlocked
}

// Noop reports whether committing the proposal would change nothing.
func (p Proposal) Noop(src *tile.Tile) bool {
	if !p.Possible() {
		return true
	}
	if p.X != src.X || p.Y != src.Y {
		return false
	}
	for _, d := range p.Displaced {
		if d.X != d.Tile.X || d.Y != d.Tile.Y {
			return false
		}
	}
	return true
}

// Placements returns the final position of the dragged tile followed by the
// final position of every displaced tile.
func (p Proposal) Placements(src *tile.Tile) []tile.Placement {
	if !p.Possible() {
		return nil
	}
	out := make([]tile.Placement, 0, len(p.Displaced)+1)
	out = append(out, tile.Placement{ID: src.ID, X: p.X, Y: p.Y, Cols: src.Cols, Rows: src.Rows})
	for _, d := range p.Displaced {
		out = append(out, tile.Placement{ID: d.Tile.ID, X: d.X, Y: d.Y, Cols: d.Tile.Cols, Rows: d.Tile.Rows})
	}
	return out
}

func (p Proposal) String() string {
	if !p.Possible() {
		return fmt.Sprintf("blocked(%s)", p.Reason)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s to %d,%d", p.Outcome, p.X, p.Y)
	for _, d := range p.Displaced {
		fmt.Fprintf(&b, "; %s to %d,%d", d.Tile.ID, d.X, d.Y)
	}
	return b.String()
}
