// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tiledash/internal/tile"
)

// TilesLoadedMsg is sent when the stored tiles have been read.
type TilesLoadedMsg struct {
	Tiles []*tile.Tile
}

// TileCreatedMsg is sent after a create round trip. Err is set when the
// tile could not be stored; the caller takes it off the board again.
type TileCreatedMsg struct {
	Tile *tile.Tile
	Err  error
}

// TileDeletedMsg is sent after a delete round trip.
type TileDeletedMsg struct {
	Tile *tile.Tile
	Err  error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadTiles reads every stored tile.
func LoadTiles(repo tile.Repository) tea.Cmd {
	return func() tea.Msg {
		tiles, err := repo.ListTiles(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tiles: %w", err)}
		}
		return TilesLoadedMsg{Tiles: tiles}
	}
}

// CreateTile stores a tile that has already been placed on the board.
// The tile is copied so the board's instance is never touched off the
// update loop.
func CreateTile(repo tile.Repository, t *tile.Tile) tea.Cmd {
	stored := *t
	return func() tea.Msg {
		if err := repo.CreateTile(context.Background(), &stored); err != nil {
			return TileCreatedMsg{Tile: t, Err: fmt.Errorf("creating tile: %w", err)}
		}
		return TileCreatedMsg{Tile: t}
	}
}

// DeleteTile removes a tile from storage.
func DeleteTile(repo tile.Repository, t *tile.Tile) tea.Cmd {
	id := t.ID
	return func() tea.Msg {
		if err := repo.DeleteTile(context.Background(), id); err != nil {
			return TileDeletedMsg{Tile: t, Err: fmt.Errorf("deleting tile: %w", err)}
		}
		return TileDeletedMsg{Tile: t}
	}
}
