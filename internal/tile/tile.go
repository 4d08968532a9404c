// Package tile defines the core domain types for tiledash.
package tile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyName   = errors.New("name cannot be empty")
	ErrInvalidKind = errors.New("kind must be one of link, note, pihole, glances, jellyfin")
	ErrInvalidSpan = errors.New("cols and rows must be at least 1")
)

// Domain errors.
var (
	ErrOverlap      = errors.New("tile overlaps with another tile")
	ErrOutOfBounds  = errors.New("tile exceeds grid bounds")
	ErrTileNotFound = errors.New("tile not found")
)

// Kind identifies the widget rendered inside a tile.
type Kind string

const (
	KindLink     Kind = "link"
	KindNote     Kind = "note"
	KindPihole   Kind = "pihole"
	KindGlances  Kind = "glances"
	KindJellyfin Kind = "jellyfin"
)

// Kinds lists every known widget kind in display order.
var Kinds = []Kind{KindLink, KindNote, KindPihole, KindGlances, KindJellyfin}

// Valid returns true if the kind is a known widget.
func (k Kind) Valid() bool {
	switch k {
	case KindLink, KindNote, KindPihole, KindGlances, KindJellyfin:
		return true
	default:
		return false
	}
}

// DefaultSize returns the span a freshly added widget of this kind occupies.
func (k Kind) DefaultSize() (cols, rows int) {
	switch k {
	case KindLink:
		return 1, 1
	case KindNote:
		return 2, 1
	default:
		return 2, 2
	}
}

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Tile is a widget placed on the dashboard grid.
// X and Y are 1-based column and row of the top-left cell.
type Tile struct {
	ID        string
	Kind      Kind
	Name      string
	X         int
	Y         int
	Cols      int
	Rows      int
	CreatedAt time.Time
}

// New creates an unplaced tile with a fresh id and the kind's default size.
// The caller is expected to position it (see board.Board.Add).
func New(kind, name string) (*Tile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	cols, rows := k.DefaultSize()
	return &Tile{
		ID:        uuid.New().String(),
		Kind:      k,
		Name:      name,
		X:         1,
		Y:         1,
		Cols:      cols,
		Rows:      rows,
		CreatedAt: time.Now(),
	}, nil
}

// Right returns the last column covered by the tile.
func (t *Tile) Right() int {
	return t.X + t.Cols - 1
}

// Bottom returns the last row covered by the tile.
func (t *Tile) Bottom() int {
	return t.Y + t.Rows - 1
}

// Rect returns the tile footprint.
func (t *Tile) Rect() Rect {
	return Rect{X: t.X, Y: t.Y, W: t.Cols, H: t.Rows}
}

// RectAt returns the footprint the tile would have at (x, y).
func (t *Tile) RectAt(x, y int) Rect {
	return Rect{X: x, Y: y, W: t.Cols, H: t.Rows}
}

// Placement returns the persisted position and span of the tile.
func (t *Tile) Placement() Placement {
	return Placement{ID: t.ID, X: t.X, Y: t.Y, Cols: t.Cols, Rows: t.Rows}
}

// String returns a short description used in logs and CLI output.
func (t *Tile) String() string {
	return fmt.Sprintf("%s %q @%d,%d %dx%d", t.Kind, t.Name, t.X, t.Y, t.Cols, t.Rows)
}

// Placement is the unit of a layout change: where a tile sits and how big it is.
type Placement struct {
	ID   string
	X    int
	Y    int
	Cols int
	Rows int
}

// Rect returns the placement footprint.
func (p Placement) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Cols, H: p.Rows}
}

// Clone returns a copy of every tile, preserving order.
func Clone(tiles []*Tile) []*Tile {
	out := make([]*Tile, len(tiles))
	for i, t := range tiles {
		c := *t
		out[i] = &c
	}
	return out
}
