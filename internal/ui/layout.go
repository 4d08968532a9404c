package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/tiledash/internal/board"
	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// Tile lookup errors.
var (
	ErrNoMatch   = errors.New("no tile matches")
	ErrAmbiguous = errors.New("more than one tile matches")
)

// minIDPrefix is the shortest id prefix accepted as a tile reference.
const minIDPrefix = 4

// loadBoard reads every stored tile onto a board of the configured size.
func (a *App) loadBoard(ctx context.Context) (*board.Board, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	tiles, err := a.repo.ListTiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tiles: %w", err)
	}

	b := board.New(a.config.Grid.Columns, a.config.Grid.Rows)
	hidden := b.Load(tiles)
	for _, t := range hidden {
		a.logger.Warn("tile does not fit the grid", "tile", t.Name, "cols", b.Cols(), "rows", b.Rows())
	}
	if changes := b.Changes(); len(changes) > 0 {
		a.logger.Debug("layout adjusted to fit the grid", "tiles", len(changes))
	}
	return b, nil
}

// resolveTile finds the tile named by ref, placed or hidden: an exact id, a
// unique id prefix of at least minIDPrefix characters, or a unique name
// (case-insensitive).
func resolveTile(b *board.Board, ref string) (*tile.Tile, error) {
	ref = strings.TrimSpace(ref)
	tiles := append(b.Tiles(), b.Hidden()...)

	for _, t := range tiles {
		if t.ID == ref {
			return t, nil
		}
	}

	var matches []*tile.Tile
	if len(ref) >= minIDPrefix {
		for _, t := range tiles {
			if strings.HasPrefix(t.ID, ref) {
				matches = append(matches, t)
			}
		}
	}
	if len(matches) == 0 {
		for _, t := range tiles {
			if strings.EqualFold(t.Name, ref) {
				matches = append(matches, t)
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w %q", ErrNoMatch, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w %q (%d tiles); use the id", ErrAmbiguous, ref, len(matches))
	}
}

// printProposal describes where src and any displaced tiles end up.
func printProposal(w io.Writer, src *tile.Tile, p grid.Proposal) {
	if !p.Possible() {
		fmt.Fprintf(w, "%s %s: %s\n", formatOutcome(p.Outcome), src.Name, p.Reason)
		return
	}
	fmt.Fprintf(w, "%s %s -> %d,%d\n", formatOutcome(p.Outcome), src.Name, p.X, p.Y)
	for _, d := range p.Displaced {
		fmt.Fprintf(w, "  %s %s -> %d,%d\n", formatMuted("displaces"), d.Tile.Name, d.X, d.Y)
	}
}

// shortID returns the leading part of a tile id, enough to pass back as a
// reference.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
