package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS tiles (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL CHECK(kind IN ('link', 'note', 'pihole', 'glances', 'jellyfin')),
			name       TEXT NOT NULL,
			x          INTEGER NOT NULL CHECK(x >= 1),
			y          INTEGER NOT NULL CHECK(y >= 1),
			width      INTEGER NOT NULL CHECK(width >= 1),
			height     INTEGER NOT NULL CHECK(height >= 1),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_tiles_created ON tiles(created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tiles table: %w", err)
	}

	return nil
}
