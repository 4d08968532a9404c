package tile

import "context"

// Repository defines the storage interface for tiles.
type Repository interface {
	// CreateTile adds a new tile to the repository.
	// Returns ErrOverlap if the tile's footprint conflicts with a stored tile.
	CreateTile(ctx context.Context, t *Tile) error

	// GetTile retrieves a tile by ID. Returns nil, nil if it does not exist.
	GetTile(ctx context.Context, id string) (*Tile, error)

	// ListTiles returns every stored tile ordered by creation time.
	ListTiles(ctx context.Context) ([]*Tile, error)

	// DeleteTile removes a tile. Returns ErrTileNotFound if it does not exist.
	DeleteTile(ctx context.Context, id string) error

	// RenameTile updates the label of a tile in place.
	RenameTile(ctx context.Context, id, name string) error

	// SaveLayout updates the position and span of several tiles atomically.
	// It validates that the resulting layout fits a cols x rows grid with
	// no overlaps before applying anything.
	SaveLayout(ctx context.Context, cols, rows int, placements []Placement) error

	// Close releases any resources held by the repository.
	Close() error
}
