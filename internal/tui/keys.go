package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tiledash/internal/board"
	"github.com/javiermolinar/tiledash/internal/drag"
	"github.com/javiermolinar/tiledash/internal/tile"
	"github.com/javiermolinar/tiledash/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeEdit:
		return m.handleEditKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.board.HasChanges() {
			m.statusMsg = "Unsaved changes! Press e then s to save, or r to reload"
			return m, nil
		}
		return m, tea.Quit

	case "e", "i":
		m.board.EnterEditMode()
		LogModeChange(m.mode, ModeEdit, "key")
		m.mode = ModeEdit
		if m.focus == "" {
			m.focusNext(1)
		}
		m.statusMsg = "Edit mode: drag tiles, hjkl move, HJKL resize, u undo, s save, Esc discard"
		return m, nil

	case "tab":
		m.focusNext(1)
	case "shift+tab":
		m.focusNext(-1)

	case "a":
		if m.board.HasChanges() {
			m.statusMsg = "Save or discard layout changes first"
			return m, nil
		}
		return m.openAddTile()

	case "x", "d":
		t := m.board.Tile(m.focus)
		if t == nil {
			m.statusMsg = "Select a tile first (Tab)"
			return m, nil
		}
		if m.board.HasChanges() {
			m.statusMsg = "Save or discard layout changes first"
			return m, nil
		}
		m.confirmTile = t
		m.openModal(ModalConfirmDelete)
		return m, nil

	case "y":
		if err := clipboard.WriteAll(m.board.Sketch()); err != nil {
			m.statusMsg = fmt.Sprintf("Error copying: %v", err)
			return m, nil
		}
		return m.setStatus("Layout copied to clipboard")

	case "r":
		if m.repo == nil {
			return m, nil
		}
		m.loading = true
		return m, commands.LoadTiles(m.repo)
	}

	return m, nil
}

// handleEditKeys handles keys in edit mode.
// Changes are made in-memory and can be undone; s saves, Esc discards.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		// Don't allow quit without confirming changes
		if m.board.HasChanges() {
			m.statusMsg = "Unsaved changes! Press s to save or Esc to discard"
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		if m.drag.Mode() != drag.ModeIdle {
			m.drag.Cancel()
			m.statusMsg = "Drag cancelled"
			return m, nil
		}
		m.board.DiscardChanges()
		LogModeChange(m.mode, ModeNormal, "discard")
		m.mode = ModeNormal
		m.statusMsg = "Changes discarded"
		return m, nil

	case "s", "enter":
		if m.drag.Mode() != drag.ModeIdle {
			return m, nil
		}
		if m.repo == nil {
			m.statusMsg = "No storage configured"
			return m, nil
		}
		n := len(m.board.Changes())
		if err := m.board.SaveChanges(context.Background(), m.repo); err != nil {
			LogError("save", err)
			m.statusMsg = fmt.Sprintf("Error saving: %v", err)
			return m, nil
		}
		if msg.String() == "enter" {
			m.board.ExitEditMode()
			LogModeChange(m.mode, ModeNormal, "save")
			m.mode = ModeNormal
		}
		return m.setStatus(fmt.Sprintf("Saved %d tile(s)", n))

	case "u":
		desc, err := m.board.Undo()
		if err != nil {
			m.statusMsg = errorStatus(err, board.ErrNothingToUndo)
			return m, nil
		}
		m.drag.Cancel()
		if remaining := m.board.UndoCount(); remaining > 0 {
			m.statusMsg = fmt.Sprintf("Undone %s (%d more available)", desc, remaining)
		} else {
			m.statusMsg = fmt.Sprintf("Undone %s (no more changes)", desc)
		}
		return m, nil

	case "tab":
		m.focusNext(1)
	case "shift+tab":
		m.focusNext(-1)

	// Keyboard moves take the same path as a drop.
	case "h", "left":
		return m.moveFocused(-1, 0)
	case "l", "right":
		return m.moveFocused(1, 0)
	case "k", "up":
		return m.moveFocused(0, -1)
	case "j", "down":
		return m.moveFocused(0, 1)

	case "H", "shift+left":
		return m.resizeFocused(-1, 0)
	case "L", "shift+right":
		return m.resizeFocused(1, 0)
	case "K", "shift+up":
		return m.resizeFocused(0, -1)
	case "J", "shift+down":
		return m.resizeFocused(0, 1)

	case "y":
		if err := clipboard.WriteAll(m.board.Sketch()); err != nil {
			m.statusMsg = fmt.Sprintf("Error copying: %v", err)
			return m, nil
		}
		return m.setStatus("Layout copied to clipboard")
	}

	return m, nil
}

func (m Model) moveFocused(dx, dy int) (tea.Model, tea.Cmd) {
	t := m.board.Tile(m.focus)
	if t == nil || m.drag.Mode() != drag.ModeIdle {
		return m, nil
	}
	p, err := m.board.Move(t.ID, t.X+dx, t.Y+dy)
	if err != nil {
		m.statusMsg = errorStatus(err, board.ErrBlocked)
		return m, nil
	}
	debugLog.Debug("key move", "tile", t.ID, "proposal", p)
	m.statusMsg = fmt.Sprintf("Moved %s (unsaved)", t.Name)
	return m, nil
}

func (m Model) resizeFocused(dc, dr int) (tea.Model, tea.Cmd) {
	t := m.board.Tile(m.focus)
	if t == nil || m.drag.Mode() != drag.ModeIdle {
		return m, nil
	}
	if err := m.board.Resize(t.ID, t.Cols+dc, t.Rows+dr); err != nil {
		m.statusMsg = errorStatus(err, board.ErrBlocked, tile.ErrInvalidSpan)
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Resized %s to %dx%d (unsaved)", t.Name, t.Cols, t.Rows)
	return m, nil
}

// focusNext moves focus dir steps through the tiles in display order.
func (m *Model) focusNext(dir int) {
	tiles := m.board.Tiles()
	if len(tiles) == 0 {
		m.focus = ""
		return
	}
	idx := -1
	for i, t := range tiles {
		if t.ID == m.focus {
			idx = i
			break
		}
	}
	if idx < 0 {
		if dir < 0 {
			idx = 0
		} else {
			idx = len(tiles) - 1
		}
	}
	idx = (idx + dir + len(tiles)) % len(tiles)
	m.focus = tiles[idx].ID
}
