// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/tiledash/internal/tile"
)

// SQLite implements tile.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateTile adds a new tile to the repository.
// Returns tile.ErrOverlap if its footprint overlaps a stored tile.
func (s *SQLite) CreateTile(ctx context.Context, t *tile.Tile) error {
	if t.Cols < 1 || t.Rows < 1 {
		return tile.ErrInvalidSpan
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stored, err := listPlacementsTx(ctx, tx)
	if err != nil {
		return err
	}
	for _, p := range stored {
		if p.Rect().Overlaps(t.Rect()) {
			return fmt.Errorf("%w: %q %s conflicts with %s %s",
				tile.ErrOverlap, t.Name, t.Rect(), p.ID, p.Rect())
		}
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO tiles (id, kind, name, x, y, width, height, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		t.ID,
		t.Kind,
		t.Name,
		t.X,
		t.Y,
		t.Cols,
		t.Rows,
		t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting tile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetTile retrieves a tile by ID.
func (s *SQLite) GetTile(ctx context.Context, id string) (*tile.Tile, error) {
	query := `
		SELECT id, kind, name, x, y, width, height, created_at
		FROM tiles
		WHERE id = ?
	`

	t, err := scanTile(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying tile: %w", err)
	}
	return t, nil
}

// ListTiles returns every stored tile, oldest first.
func (s *SQLite) ListTiles(ctx context.Context) ([]*tile.Tile, error) {
	query := `
		SELECT id, kind, name, x, y, width, height, created_at
		FROM tiles
		ORDER BY created_at, rowid
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying tiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tiles []*tile.Tile
	for rows.Next() {
		t, err := scanTile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tile: %w", err)
		}
		tiles = append(tiles, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tiles: %w", err)
	}

	return tiles, nil
}

// DeleteTile removes a tile.
func (s *SQLite) DeleteTile(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tile: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("tile %s: %w", id, tile.ErrTileNotFound)
	}

	return nil
}

// RenameTile updates the label of a tile.
func (s *SQLite) RenameTile(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return tile.ErrEmptyName
	}

	result, err := s.db.ExecContext(ctx, `UPDATE tiles SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming tile: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("tile %s: %w", id, tile.ErrTileNotFound)
	}
	return nil
}

// SaveLayout updates the position and span of several tiles in one
// transaction. The layout that would result is validated against the
// cols x rows grid first. Stored tiles whose origin lies outside the grid
// were hidden by a smaller grid and take no part in the check.
func (s *SQLite) SaveLayout(ctx context.Context, cols, rows int, placements []tile.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. Current layout
	stored, err := listPlacementsTx(ctx, tx)
	if err != nil {
		return err
	}

	// 2. Build final state by applying updates
	updates := make(map[string]tile.Placement, len(placements))
	for _, p := range placements {
		updates[p.ID] = p
	}

	final := make([]tile.Placement, 0, len(stored))
	for _, p := range stored {
		if u, ok := updates[p.ID]; ok {
			final = append(final, u)
			delete(updates, p.ID)
			continue
		}
		if p.X > cols || p.Y > rows {
			continue
		}
		final = append(final, p)
	}
	for _, p := range placements {
		if _, missing := updates[p.ID]; missing {
			return fmt.Errorf("tile %s: %w", p.ID, tile.ErrTileNotFound)
		}
	}

	// 3. Check the final state
	if err := tile.ValidateLayout(cols, rows, final); err != nil {
		return err
	}

	// 4. Execute all updates
	updateQuery := `UPDATE tiles SET x = ?, y = ?, width = ?, height = ? WHERE id = ?`
	stmt, err := tx.PrepareContext(ctx, updateQuery)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range placements {
		if _, err := stmt.ExecContext(ctx, p.X, p.Y, p.Cols, p.Rows, p.ID); err != nil {
			return fmt.Errorf("updating tile %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTile(row scanner) (*tile.Tile, error) {
	var (
		t         tile.Tile
		kind      string
		createdAt string
	)

	err := row.Scan(
		&t.ID,
		&kind,
		&t.Name,
		&t.X,
		&t.Y,
		&t.Cols,
		&t.Rows,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.Kind = tile.Kind(kind)
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &t, nil
}

// parseTime parses timestamps written by CreateTile or by the column default.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", s)
}

func listPlacementsTx(ctx context.Context, tx *sql.Tx) ([]tile.Placement, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, x, y, width, height FROM tiles ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying tiles: %w", err)
	}

	var out []tile.Placement
	for rows.Next() {
		var p tile.Placement
		if err := rows.Scan(&p.ID, &p.X, &p.Y, &p.Cols, &p.Rows); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning tile: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing rows: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tiles: %w", err)
	}
	return out, nil
}
