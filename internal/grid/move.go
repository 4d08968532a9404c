package grid

import "github.com/javiermolinar/tiledash/internal/tile"

// Propose returns the rearrangement for dropping src at (x, y): a
// neighbour exchange when FlowSwap applies, CheckMove otherwise.
func (g *Grid) Propose(src *tile.Tile, x, y int) Proposal {
	if p, ok := g.FlowSwap(src, x, y); ok {
		return p
	}
	return g.CheckMove(src, x, y)
}

// CheckMove decides whether src can be moved so its top-left cell lands on
// (x, y), and which occupants have to move out of the way.
//
// The strategies are tried in a fixed order:
//
//  1. bounds: a destination footprint crossing a grid edge is blocked.
//  2. free move: nothing else occupies the destination.
//  3. engulfment swap: every occupant lies entirely inside the destination.
//     Each keeps its offset from the destination origin, re-anchored on the
//     source's old origin.
//  4. reverse clearance: exactly one occupant, not engulfed. The source snaps
//     to the occupant's origin and the occupant is projected to a shadow
//     position mirroring the drop offset around the source's old origin.
//     If the shadow does not fit, the occupant is tried at the source's old
//     origin instead.
//
// Anything else is blocked with ReasonCollision.
func (g *Grid) CheckMove(src *tile.Tile, x, y int) Proposal {
	dest := src.RectAt(x, y)
	if !dest.InBounds(g.cols, g.rows) {
		return blocked(ReasonBounds)
	}

	collisions := g.TilesInArea(x, y, src.Cols, src.Rows, src.ID)
	if len(collisions) == 0 {
		return Proposal{Outcome: OutcomeMove, X: x, Y: y}
	}

	if p, ok := g.engulf(src, dest, collisions); ok {
		return p
	}

	if len(collisions) == 1 {
		if p, ok := g.reverseClear(src, x, y, collisions[0]); ok {
			return p
		}
	}

	return blocked(ReasonCollision)
}

// engulf handles a big tile dropped over smaller ones that all fit inside it.
func (g *Grid) engulf(src *tile.Tile, dest tile.Rect, collisions []*tile.Tile) (Proposal, bool) {
	ignore := make([]string, 0, len(collisions)+1)
	ignore = append(ignore, src.ID)
	for _, c := range collisions {
		if !dest.Contains(c.Rect()) {
			return Proposal{}, false
		}
		ignore = append(ignore, c.ID)
	}

	moves := make([]Displacement, len(collisions))
	for i, c := range collisions {
		moves[i] = Displacement{
			Tile: c,
			X:    src.X + (c.X - dest.X),
			Y:    src.Y + (c.Y - dest.Y),
		}
	}

	if !g.fits(dest, moves, ignore) {
		return Proposal{}, false
	}
	return Proposal{Outcome: OutcomeSwap, X: dest.X, Y: dest.Y, Displaced: moves}, true
}

// reverseClear handles a tile dropped onto a single occupant it cannot engulf.
func (g *Grid) reverseClear(src *tile.Tile, x, y int, obstacle *tile.Tile) (Proposal, bool) {
	ignore := []string{src.ID, obstacle.ID}

	// The source lands on the obstacle's grid-aligned origin, not the raw
	// cursor cell.
	snap := src.RectAt(obstacle.X, obstacle.Y)
	if !g.IsAreaFree(snap.X, snap.Y, snap.W, snap.H, ignore...) {
		return Proposal{}, false
	}

	offX, offY := x-obstacle.X, y-obstacle.Y
	candidates := [2][2]int{
		{src.X - offX, src.Y - offY}, // shadow
		{src.X, src.Y},               // strict swap
	}

	// Each candidate is checked on its own; they coincide when the drop
	// offset is zero and then fail or pass together.
	for _, c := range candidates {
		moves := []Displacement{{Tile: obstacle, X: c[0], Y: c[1]}}
		if g.fits(snap, moves, ignore) {
			return Proposal{Outcome: OutcomeSwap, X: snap.X, Y: snap.Y, Displaced: moves}, true
		}
	}
	return Proposal{}, false
}

// fits reports whether every displacement lands in bounds on cells that are
// free apart from ignore, without touching dest or another displacement.
func (g *Grid) fits(dest tile.Rect, moves []Displacement, ignore []string) bool {
	for i, m := range moves {
		r := m.Rect()
		if !g.IsAreaFree(r.X, r.Y, r.W, r.H, ignore...) {
			return false
		}
		if r.Overlaps(dest) {
			return false
		}
		for _, prev := range moves[:i] {
			if r.Overlaps(prev.Rect()) {
				return false
			}
		}
	}
	return true
}

// FlowSwap is the cheap neighbour exchange: when the destination of src
// collides with exactly one tile that shares an edge with src, the two trade
// places along that edge. Horizontal neighbours are tried first, then
// vertical ones. The second return value is false when the gesture is not a
// neighbour swap or the exchanged positions do not fit.
func (g *Grid) FlowSwap(src *tile.Tile, x, y int) (Proposal, bool) {
	if !src.RectAt(x, y).InBounds(g.cols, g.rows) {
		return Proposal{}, false
	}
	collisions := g.TilesInArea(x, y, src.Cols, src.Rows, src.ID)
	if len(collisions) != 1 {
		return Proposal{}, false
	}

	o := collisions[0]
	s, r := src.Rect(), o.Rect()

	// Same row band: exchange left and right edges.
	if s.Y <= r.Bottom() && r.Y <= s.Bottom() {
		switch {
		case s.Right()+1 == r.X:
			if p, ok := g.exchange(src, o, r.Right()-s.W+1, s.Y, s.X, r.Y); ok {
				return p, true
			}
		case r.Right()+1 == s.X:
			if p, ok := g.exchange(src, o, r.X, s.Y, s.Right()-r.W+1, r.Y); ok {
				return p, true
			}
		}
	}

	// Same column band: exchange top and bottom edges.
	if s.X <= r.Right() && r.X <= s.Right() {
		switch {
		case s.Bottom()+1 == r.Y:
			if p, ok := g.exchange(src, o, s.X, r.Bottom()-s.H+1, r.X, s.Y); ok {
				return p, true
			}
		case r.Bottom()+1 == s.Y:
			if p, ok := g.exchange(src, o, s.X, r.Y, r.X, s.Bottom()-r.H+1); ok {
				return p, true
			}
		}
	}

	return Proposal{}, false
}

func (g *Grid) exchange(src, o *tile.Tile, sx, sy, ox, oy int) (Proposal, bool) {
	sr, or := src.RectAt(sx, sy), o.RectAt(ox, oy)
	if sr.Overlaps(or) {
		return Proposal{}, false
	}
	if !g.IsAreaFree(sr.X, sr.Y, sr.W, sr.H, src.ID, o.ID) ||
		!g.IsAreaFree(or.X, or.Y, or.W, or.H, src.ID, o.ID) {
		return Proposal{}, false
	}
	return Proposal{
		Outcome:   OutcomeSwap,
		X:         sx,
		Y:         sy,
		Displaced: []Displacement{{Tile: o, X: ox, Y: oy}},
	}, true
}
