package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// tilesFromString parses a grid picture ("AAB.|AAC.") into tiles.
// Each letter is a tile id, '.' an empty cell, '|' separates rows.
func tilesFromString(t *testing.T, s string) (cols, rows int, tiles []*tile.Tile) {
	t.Helper()
	lines := strings.Split(s, "|")
	rows = len(lines)
	cols = len(lines[0])
	byID := make(map[string]*tile.Tile)
	for y, line := range lines {
		if len(line) != cols {
			t.Fatalf("row %d has %d cells, want %d", y+1, len(line), cols)
		}
		for x, ch := range line {
			if ch == '.' {
				continue
			}
			id := string(ch)
			tl, ok := byID[id]
			if !ok {
				tl = &tile.Tile{ID: id, Kind: tile.KindLink, Name: "tile " + id, X: x + 1, Y: y + 1, Cols: 1, Rows: 1}
				byID[id] = tl
				tiles = append(tiles, tl)
				continue
			}
			tl.Cols = max(tl.Cols, x+1-tl.X+1)
			tl.Rows = max(tl.Rows, y+1-tl.Y+1)
		}
	}
	return cols, rows, tiles
}

func boardFromString(t *testing.T, s string) *Board {
	t.Helper()
	cols, rows, tiles := tilesFromString(t, s)
	b := New(cols, rows)
	if hidden := b.Load(tiles); len(hidden) != 0 {
		t.Fatalf("fixture has %d hidden tiles", len(hidden))
	}
	return b
}

func layout(b *Board) string {
	return strings.ReplaceAll(b.Grid().String(), "\n", "|")
}

type fakeStore struct {
	calls [][]tile.Placement
	err   error
}

func (f *fakeStore) SaveLayout(_ context.Context, cols, rows int, placements []tile.Placement) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, placements)
	return nil
}

func TestBoard_NewAndBasics(t *testing.T) {
	b := New(10, 6)

	if b.IsEditing() {
		t.Error("new board should not be in edit mode")
	}
	if len(b.Tiles()) != 0 {
		t.Error("new board should have no tiles")
	}
	if b.HasChanges() {
		t.Error("new board should have no changes")
	}
	if b.Cols() != 10 || b.Rows() != 6 {
		t.Errorf("dimensions = %dx%d, want 10x6", b.Cols(), b.Rows())
	}
}

func TestBoard_EditModeGuards(t *testing.T) {
	b := boardFromString(t, "AB..")

	if _, err := b.Move("A", 3, 1); !errors.Is(err, ErrNotInEditMode) {
		t.Errorf("Move outside edit mode: got %v, want ErrNotInEditMode", err)
	}
	if err := b.Resize("A", 2, 1); !errors.Is(err, ErrNotInEditMode) {
		t.Errorf("Resize outside edit mode: got %v, want ErrNotInEditMode", err)
	}
	if _, err := b.Undo(); !errors.Is(err, ErrNotInEditMode) {
		t.Errorf("Undo outside edit mode: got %v, want ErrNotInEditMode", err)
	}
	if got := layout(b); got != "AB.." {
		t.Errorf("layout changed outside edit mode: %q", got)
	}
}

func TestBoard_Move(t *testing.T) {
	tests := []struct {
		name    string
		layout  string
		id      string
		x, y    int
		want    string
		wantErr error
	}{
		{"free move", "A...|....", "A", 3, 2, "....|..A.", nil},
		{"neighbour swap", "AB..|....", "A", 2, 1, "BA..|....", nil},
		{"engulfment", "AAB.|AAC.", "A", 3, 1, "BAA.|CAA.", nil},
		{"blocked by bounds", "AA..|AA..", "A", 4, 1, "AA..|AA..", ErrBlocked},
		{"blocked by collision", "SS.AB.|SS.AB.|....B.", "S", 4, 1, "SS.AB.|SS.AB.|....B.", ErrBlocked},
		{"unknown tile", "A...", "Z", 2, 1, "A...", ErrTileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromString(t, tt.layout)
			b.EnterEditMode()

			_, err := b.Move(tt.id, tt.x, tt.y)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Move error = %v, want %v", err, tt.wantErr)
			}
			if got := layout(b); got != tt.want {
				t.Errorf("layout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoard_CommitUpdatesSharedTiles(t *testing.T) {
	b := boardFromString(t, "AB..")
	b.EnterEditMode()

	a := b.Tile("A")
	p := b.Grid().Propose(a, 4, 1)
	if err := b.Commit(a, p); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if a.X != 4 || a.Y != 1 {
		t.Errorf("tile pointer not updated: %d,%d", a.X, a.Y)
	}
}

func TestBoard_CommitRejectsStaleProposal(t *testing.T) {
	b := boardFromString(t, "A..|...")
	b.EnterEditMode()
	a := b.Tile("A")

	stale := b.Grid().CheckMove(a, 3, 1)

	// A tile lands on the destination after the proposal was computed.
	c := &tile.Tile{ID: "C", Kind: tile.KindLink, Name: "c", Cols: 1, Rows: 1}
	if err := b.Add(c); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := b.Move("C", 3, 1); err != nil {
		t.Fatalf("Move C: %v", err)
	}

	err := b.Commit(a, stale)
	if !errors.Is(err, tile.ErrOverlap) {
		t.Fatalf("Commit stale proposal: got %v, want ErrOverlap", err)
	}
	if got := layout(b); got != "A.C|..." {
		t.Errorf("layout = %q, want unchanged", got)
	}
}

func TestBoard_CommitBlockedProposal(t *testing.T) {
	b := boardFromString(t, "AB")
	b.EnterEditMode()
	a := b.Tile("A")

	err := b.Commit(a, grid.Proposal{Outcome: grid.OutcomeBlocked, Reason: grid.ReasonBounds})
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("got %v, want ErrBlocked", err)
	}
	if b.UndoCount() != 0 {
		t.Error("blocked commit should not push history")
	}
}

func TestBoard_Resize(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		rows    int
		want    string
		wantErr error
	}{
		{"grow into free space", 2, 2, "AAB.|AA..", nil},
		{"grow into neighbour", 3, 1, "A.B.|....", ErrBlocked},
		{"grow past edge", 1, 3, "A.B.|....", ErrBlocked},
		{"zero span", 0, 1, "A.B.|....", tile.ErrInvalidSpan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromString(t, "A.B.|....")
			b.EnterEditMode()

			err := b.Resize("A", tt.cols, tt.rows)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resize error = %v, want %v", err, tt.wantErr)
			}
			if got := layout(b); got != tt.want {
				t.Errorf("layout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBoard_Undo(t *testing.T) {
	b := boardFromString(t, "AB..|....")
	b.EnterEditMode()

	if _, err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo on fresh session: got %v, want ErrNothingToUndo", err)
	}

	if _, err := b.Move("A", 4, 2); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := b.Resize("B", 2, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got, want := layout(b), ".BB.|.BBA"; got != want {
		t.Fatalf("layout = %q, want %q", got, want)
	}
	if !b.CanUndo() || b.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", b.UndoCount())
	}

	desc, err := b.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if desc != "Resize: tile B" {
		t.Errorf("description = %q", desc)
	}
	if got, want := layout(b), ".B..|...A"; got != want {
		t.Errorf("after first undo = %q, want %q", got, want)
	}

	if _, err := b.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got, want := layout(b), "AB..|...."; got != want {
		t.Errorf("after second undo = %q, want %q", got, want)
	}
	if b.HasChanges() {
		t.Error("undoing everything should leave no changes")
	}
}

func TestBoard_HistoryIsBounded(t *testing.T) {
	b := boardFromString(t, "A.")
	b.EnterEditMode()

	for i := 0; i < defaultMaxHistory+10; i++ {
		x := 2 - i%2
		if _, err := b.Move("A", x, 1); err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
	}
	if b.UndoCount() != defaultMaxHistory {
		t.Errorf("UndoCount = %d, want %d", b.UndoCount(), defaultMaxHistory)
	}
}

func TestBoard_AddAndRemove(t *testing.T) {
	b := boardFromString(t, "AAB.|AA..|....")

	note := &tile.Tile{ID: "N", Kind: tile.KindNote, Name: "note", Cols: 2, Rows: 1}
	if err := b.Add(note); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if note.X != 3 || note.Y != 2 {
		t.Errorf("note placed at %d,%d, want 3,2", note.X, note.Y)
	}
	if b.HasChanges() {
		t.Error("an added tile is persisted by the caller and is not a pending change")
	}

	big := &tile.Tile{ID: "G", Kind: tile.KindGlances, Name: "glances", Cols: 2, Rows: 2}
	if err := b.Add(big); !errors.Is(err, ErrNoSpace) {
		t.Fatalf("Add with no room: got %v, want ErrNoSpace", err)
	}
	if b.Tile("G") != nil {
		t.Error("tile without room should not be on the board")
	}

	removed, err := b.Remove("A")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.ID != "A" {
		t.Errorf("removed %s, want A", removed.ID)
	}
	if got, want := layout(b), "..B.|..NN|...."; got != want {
		t.Errorf("layout = %q, want %q", got, want)
	}
	if _, err := b.Remove("A"); !errors.Is(err, ErrTileNotFound) {
		t.Errorf("second Remove: got %v, want ErrTileNotFound", err)
	}
}

func TestBoard_AddClearsHistory(t *testing.T) {
	b := boardFromString(t, "A...")
	b.EnterEditMode()
	if _, err := b.Move("A", 4, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if err := b.Add(&tile.Tile{ID: "L", Kind: tile.KindLink, Name: "l", Cols: 1, Rows: 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if b.CanUndo() {
		t.Error("Add should clear undo history")
	}
}

func TestBoard_ChangesAndSave(t *testing.T) {
	b := boardFromString(t, "AB..|....")
	b.EnterEditMode()

	if _, err := b.Move("A", 2, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := []tile.Placement{
		{ID: "A", X: 2, Y: 1, Cols: 1, Rows: 1},
		{ID: "B", X: 1, Y: 1, Cols: 1, Rows: 1},
	}
	if diff := cmp.Diff(want, b.Changes()); diff != "" {
		t.Fatalf("Changes mismatch (-want +got):\n%s", diff)
	}

	store := &fakeStore{}
	if err := b.SaveChanges(context.Background(), store); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if len(store.calls) != 1 {
		t.Fatalf("SaveLayout called %d times, want 1", len(store.calls))
	}
	if diff := cmp.Diff(want, store.calls[0]); diff != "" {
		t.Errorf("saved placements mismatch (-want +got):\n%s", diff)
	}
	if b.HasChanges() {
		t.Error("no changes should be pending after save")
	}
	if !b.IsEditing() {
		t.Error("saving should keep edit mode")
	}

	// Nothing pending: the store is not called again.
	if err := b.SaveChanges(context.Background(), store); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if len(store.calls) != 1 {
		t.Errorf("SaveLayout called %d times, want 1", len(store.calls))
	}
}

func TestBoard_SaveChangesError(t *testing.T) {
	b := boardFromString(t, "A.")
	b.EnterEditMode()
	if _, err := b.Move("A", 2, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	boom := errors.New("disk full")
	if err := b.SaveChanges(context.Background(), &fakeStore{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped store error", err)
	}
	if !b.HasChanges() {
		t.Error("failed save should keep changes pending")
	}
}

func TestBoard_DiscardChanges(t *testing.T) {
	b := boardFromString(t, "AB..")
	b.EnterEditMode()
	if _, err := b.Move("A", 4, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	b.DiscardChanges()

	if b.IsEditing() {
		t.Error("DiscardChanges should exit edit mode")
	}
	if got := layout(b); got != "AB.." {
		t.Errorf("layout = %q, want original", got)
	}
	if b.HasChanges() {
		t.Error("no changes should remain")
	}
}

func TestBoard_SetDimensions(t *testing.T) {
	tests := []struct {
		name       string
		layout     string
		cols, rows int
		want       string
		wantHidden string
	}{
		{
			name:   "grow keeps everything",
			layout: "AB|CC",
			cols:   3,
			rows:   3,
			want:   "AB.|CC.|...",
		},
		{
			name:   "shrink tile crossing the edge",
			layout: "AAA.|....",
			cols:   2,
			rows:   2,
			want:   "AA|..",
		},
		{
			name:   "relocate tile whose origin fell off",
			layout: "A..B|....",
			cols:   2,
			rows:   2,
			want:   "AB|..",
		},
		{
			name:       "hide tile without room",
			layout:     "AB.C|DE..",
			cols:       2,
			rows:       2,
			want:       "AB|DE",
			wantHidden: "C",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromString(t, tt.layout)

			hidden := b.SetDimensions(tt.cols, tt.rows)

			if got := layout(b); got != tt.want {
				t.Errorf("layout = %q, want %q", got, tt.want)
			}
			var ids strings.Builder
			for _, h := range hidden {
				ids.WriteString(h.ID)
			}
			if ids.String() != tt.wantHidden {
				t.Errorf("hidden = %q, want %q", ids.String(), tt.wantHidden)
			}
			if err := tile.ValidateLayout(b.Cols(), b.Rows(), tile.Placements(b.Tiles())); err != nil {
				t.Errorf("invalid layout after resize: %v", err)
			}
		})
	}
}

func TestBoard_SetDimensionsRestoresHidden(t *testing.T) {
	b := boardFromString(t, "AB.C")

	if hidden := b.SetDimensions(2, 1); len(hidden) != 1 {
		t.Fatalf("hidden = %d tiles, want 1", len(hidden))
	}
	if hidden := b.SetDimensions(4, 1); len(hidden) != 0 {
		t.Fatalf("hidden = %d tiles after growing back, want 0", len(hidden))
	}
	if got := layout(b); got != "AB.C" {
		t.Errorf("layout = %q, want %q", got, "AB.C")
	}
}

func TestBoard_LoadSanitizes(t *testing.T) {
	// Stored for a 4x1 grid, loaded into a 3x1 one.
	_, _, tiles := tilesFromString(t, "A.BB")
	b := New(3, 1)

	if hidden := b.Load(tiles); len(hidden) != 0 {
		t.Fatalf("hidden = %d tiles, want 0", len(hidden))
	}
	if got := layout(b); got != "A.B" {
		t.Errorf("layout = %q, want %q", got, "A.B")
	}
	want := []tile.Placement{{ID: "B", X: 3, Y: 1, Cols: 1, Rows: 1}}
	if diff := cmp.Diff(want, b.Changes()); diff != "" {
		t.Errorf("sanitized tiles should be pending changes (-want +got):\n%s", diff)
	}
}

func TestBoard_DiscardKeepsSanitizedPlacements(t *testing.T) {
	_, _, tiles := tilesFromString(t, "A.BB")
	b := New(3, 1)
	b.Load(tiles)
	b.EnterEditMode()
	if _, err := b.Move("A", 2, 1); err != nil {
		t.Fatalf("Move: %v", err)
	}

	b.DiscardChanges()

	if got := layout(b); got != "A.B" {
		t.Errorf("layout = %q, want %q", got, "A.B")
	}
	want := []tile.Placement{{ID: "B", X: 3, Y: 1, Cols: 1, Rows: 1}}
	if diff := cmp.Diff(want, b.Changes()); diff != "" {
		t.Errorf("sanitized tiles should stay pending (-want +got):\n%s", diff)
	}
}

func TestBoard_Sketch(t *testing.T) {
	// C falls off a 2x2 grid with no room left for it.
	_, _, tiles := tilesFromString(t, "ABC|AD.")
	b := New(2, 2)
	b.Load(tiles)

	want := "AB\nAC\n\n" +
		"A  link     tile A (1x2 at 1,1)\n" +
		"B  link     tile B (1x1 at 2,1)\n" +
		"C  link     tile D (1x1 at 2,2)\n" +
		"-  link     tile C (hidden)\n"
	if got := b.Sketch(); got != want {
		t.Errorf("Sketch() =\n%s\nwant\n%s", got, want)
	}
}
