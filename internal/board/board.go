// Package board holds the authoritative tile list of a dashboard and the
// edit session around it: undo history, pending changes and persistence.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// Board errors.
var (
	ErrNotInEditMode = errors.New("not in edit mode")
	ErrTileNotFound  = errors.New("tile not found")
	ErrNoSpace       = errors.New("no free area large enough for tile")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrBlocked       = errors.New("move is blocked")
)

const defaultMaxHistory = 50

// LayoutStore persists layout changes. tile.Repository satisfies it.
type LayoutStore interface {
	SaveLayout(ctx context.Context, cols, rows int, placements []tile.Placement) error
}

// HistoryEntry is a single undo-able operation.
type HistoryEntry struct {
	Description string       // e.g. "Move: pihole"
	Tiles       []*tile.Tile // tile list before the operation
}

// Board owns the tiles placed on a cols x rows grid.
//
// Tiles returned by the board are shared with it: callers may read them but
// must change layout only through Commit, Resize, Add or Remove.
type Board struct {
	cols int
	rows int

	tiles  []*tile.Tile
	hidden []*tile.Tile // tiles that do not fit the current dimensions

	// Last persisted placement of every tile, used to compute Changes.
	saved map[string]tile.Placement

	editing    bool
	history    []HistoryEntry
	maxHistory int
}

// New creates an empty board.
func New(cols, rows int) *Board {
	return &Board{
		cols:       cols,
		rows:       rows,
		saved:      make(map[string]tile.Placement),
		maxHistory: defaultMaxHistory,
	}
}

// Cols returns the number of grid columns.
func (b *Board) Cols() int {
	return b.cols
}

// Rows returns the number of grid rows.
func (b *Board) Rows() int {
	return b.rows
}

// Load replaces the tile list with tiles read from storage. The positions
// given are taken as persisted; any sanitizing needed to fit the grid shows
// up in Changes. Tiles that cannot be placed at all are returned.
func (b *Board) Load(tiles []*tile.Tile) []*tile.Tile {
	b.saved = make(map[string]tile.Placement, len(tiles))
	for _, t := range tiles {
		b.saved[t.ID] = t.Placement()
	}
	b.history = nil
	b.tiles, b.hidden = sanitize(b.cols, b.rows, tiles)
	return b.Hidden()
}

// SetDimensions resizes the grid, shrinking or relocating tiles that no
// longer fit. Tiles hidden by an earlier, smaller grid are placed again when
// there is room. Tiles that cannot be placed are returned.
func (b *Board) SetDimensions(cols, rows int) []*tile.Tile {
	b.cols, b.rows = cols, rows
	b.history = nil

	all := make([]*tile.Tile, 0, len(b.tiles)+len(b.hidden))
	all = append(all, b.tiles...)
	all = append(all, b.hidden...)
	b.tiles, b.hidden = sanitize(cols, rows, all)
	return b.Hidden()
}

// Tiles returns the placed tiles in display order.
func (b *Board) Tiles() []*tile.Tile {
	out := make([]*tile.Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Hidden returns the tiles that do not fit the grid.
func (b *Board) Hidden() []*tile.Tile {
	if len(b.hidden) == 0 {
		return nil
	}
	out := make([]*tile.Tile, len(b.hidden))
	copy(out, b.hidden)
	return out
}

// Tile returns the placed tile with the given id, or nil.
func (b *Board) Tile(id string) *tile.Tile {
	for _, t := range b.tiles {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Grid returns a fresh occupancy snapshot of the placed tiles.
func (b *Board) Grid() *grid.Grid {
	return grid.New(b.cols, b.rows, b.tiles)
}

// IsEditing returns true if in edit mode.
func (b *Board) IsEditing() bool {
	return b.editing
}

// EnterEditMode starts an edit session.
func (b *Board) EnterEditMode() {
	if b.editing {
		return
	}
	b.editing = true
	b.history = nil
}

// ExitEditMode ends the edit session. Unsaved changes stay pending.
func (b *Board) ExitEditMode() {
	b.editing = false
	b.history = nil
}

// DiscardChanges restores every tile to its last persisted placement and
// exits edit mode. Placements that no longer fit the grid are sanitized
// again, so those fixes stay pending.
func (b *Board) DiscardChanges() {
	all := make([]*tile.Tile, 0, len(b.tiles)+len(b.hidden))
	all = append(all, b.tiles...)
	all = append(all, b.hidden...)
	for _, t := range all {
		if p, ok := b.saved[t.ID]; ok {
			t.X, t.Y, t.Cols, t.Rows = p.X, p.Y, p.Cols, p.Rows
		}
	}
	b.tiles, b.hidden = sanitize(b.cols, b.rows, all)
	b.editing = false
	b.history = nil
}

// CanUndo returns true if there are operations to undo.
func (b *Board) CanUndo() bool {
	return b.editing && len(b.history) > 0
}

// UndoCount returns the number of operations that can be undone.
func (b *Board) UndoCount() int {
	return len(b.history)
}

// Undo reverts the last operation and returns its description.
func (b *Board) Undo() (string, error) {
	if !b.editing {
		return "", ErrNotInEditMode
	}
	if len(b.history) == 0 {
		return "", ErrNothingToUndo
	}

	entry := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.tiles = entry.Tiles
	return entry.Description, nil
}

// pushHistory saves the current tile list before a modification.
func (b *Board) pushHistory(description string) {
	if len(b.history) >= b.maxHistory {
		b.history = b.history[1:]
	}
	b.history = append(b.history, HistoryEntry{
		Description: description,
		Tiles:       tile.Clone(b.tiles),
	})
}

// Add places t at the first free area large enough for its span.
// The caller is responsible for persisting the new tile.
func (b *Board) Add(t *tile.Tile) error {
	x, y, ok := b.Grid().FindEmptySlot(t.Cols, t.Rows)
	if !ok {
		return fmt.Errorf("add %s %dx%d: %w", t.Kind, t.Cols, t.Rows, ErrNoSpace)
	}
	t.X, t.Y = x, y
	b.tiles = append(b.tiles, t)
	b.saved[t.ID] = t.Placement()
	b.history = nil
	return nil
}

// Remove takes a tile off the board and returns it.
// The caller is responsible for deleting it from storage.
func (b *Board) Remove(id string) (*tile.Tile, error) {
	for i, t := range b.tiles {
		if t.ID != id {
			continue
		}
		b.tiles = append(b.tiles[:i:i], b.tiles[i+1:]...)
		delete(b.saved, id)
		b.history = nil
		return t, nil
	}
	return nil, ErrTileNotFound
}

// Move drops tile id at (x, y), displacing other tiles when needed, and
// returns the proposal that was applied.
func (b *Board) Move(id string, x, y int) (grid.Proposal, error) {
	if !b.editing {
		return grid.Proposal{}, ErrNotInEditMode
	}
	src := b.Tile(id)
	if src == nil {
		return grid.Proposal{}, ErrTileNotFound
	}
	p := b.Grid().Propose(src, x, y)
	if err := b.Commit(src, p); err != nil {
		return p, err
	}
	return p, nil
}

// Commit applies a feasible proposal for src to the tile list.
// The resulting layout is validated before anything is changed.
func (b *Board) Commit(src *tile.Tile, p grid.Proposal) error {
	if !b.editing {
		return ErrNotInEditMode
	}
	if !p.Possible() {
		return fmt.Errorf("commit %s: %w (%s)", src.ID, ErrBlocked, p.Reason)
	}
	if b.Tile(src.ID) == nil {
		return ErrTileNotFound
	}
	if p.Noop(src) {
		return nil
	}

	placements := p.Placements(src)
	next := tile.Clone(b.tiles)
	if err := applyPlacements(next, placements); err != nil {
		return err
	}
	if err := tile.ValidateLayout(b.cols, b.rows, tile.Placements(next)); err != nil {
		return fmt.Errorf("commit %s: %w", src.ID, err)
	}

	b.pushHistory("Move: " + src.Name)
	// Apply in place so tiles already handed out see the new layout.
	return applyPlacements(b.tiles, placements)
}

// Resize changes the span of tile id, keeping its top-left cell.
func (b *Board) Resize(id string, cols, rows int) error {
	if !b.editing {
		return ErrNotInEditMode
	}
	t := b.Tile(id)
	if t == nil {
		return ErrTileNotFound
	}
	if cols < 1 || rows < 1 {
		return tile.ErrInvalidSpan
	}
	if cols == t.Cols && rows == t.Rows {
		return nil
	}
	if !b.Grid().IsAreaFree(t.X, t.Y, cols, rows, t.ID) {
		return fmt.Errorf("resize %s to %dx%d: %w", t.ID, cols, rows, ErrBlocked)
	}

	b.pushHistory("Resize: " + t.Name)
	t.Cols, t.Rows = cols, rows
	return nil
}

// HasChanges returns true if there are unsaved layout modifications.
func (b *Board) HasChanges() bool {
	return len(b.Changes()) > 0
}

// Changes returns the placement of every tile that differs from storage.
func (b *Board) Changes() []tile.Placement {
	var out []tile.Placement
	for _, t := range b.tiles {
		if p, ok := b.saved[t.ID]; ok && p == t.Placement() {
			continue
		}
		out = append(out, t.Placement())
	}
	return out
}

// SaveChanges persists pending layout changes. Edit mode and undo history
// are left untouched.
func (b *Board) SaveChanges(ctx context.Context, store LayoutStore) error {
	changes := b.Changes()
	if len(changes) == 0 {
		return nil
	}
	if err := store.SaveLayout(ctx, b.cols, b.rows, changes); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	for _, p := range changes {
		b.saved[p.ID] = p
	}
	return nil
}

func applyPlacements(tiles []*tile.Tile, placements []tile.Placement) error {
	for _, p := range placements {
		found := false
		for _, t := range tiles {
			if t.ID == p.ID {
				t.X, t.Y, t.Cols, t.Rows = p.X, p.Y, p.Cols, p.Rows
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("placement for %s: %w", p.ID, ErrTileNotFound)
		}
	}
	return nil
}
