package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tiledash/internal/tui/commands"
)

// frameMsg runs one drag recomputation.
type frameMsg struct{}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case frameMsg:
		if m.drag.Frame() {
			debugLog.Debug("frame", "ghosts", len(m.drag.Ghosts()))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitCells()
		return m, nil

	case commands.TilesLoadedMsg:
		m.drag.Cancel()
		hidden := m.board.Load(msg.Tiles)
		m.loading = false
		if m.board.Tile(m.focus) == nil {
			m.focus = ""
		}
		switch {
		case len(hidden) > 0:
			m.statusMsg = fmt.Sprintf("%d tile(s) do not fit a %dx%d grid", len(hidden), m.board.Cols(), m.board.Rows())
		case m.board.HasChanges():
			m.statusMsg = "Layout adjusted to fit the grid; save to keep it"
		}
		return m, nil

	case commands.TileCreatedMsg:
		if msg.Err != nil {
			LogError("create tile", msg.Err)
			_, _ = m.board.Remove(msg.Tile.ID)
			if m.focus == msg.Tile.ID {
				m.focus = ""
			}
			return m.setStatus(fmt.Sprintf("Error: %v", msg.Err))
		}
		return m.setStatus("Added " + msg.Tile.Name)

	case commands.TileDeletedMsg:
		if msg.Err != nil {
			LogError("delete tile", msg.Err)
			m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
			return m, commands.LoadTiles(m.repo)
		}
		return m.setStatus("Deleted " + msg.Tile.Name)

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		LogError("command", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModeModal && m.modalType == ModalAddTile {
		var cmd tea.Cmd
		m.formName, cmd = m.formName.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setStatus shows a message that clears itself after a few seconds.
func (m Model) setStatus(msg string) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusTime = time.Now().Add(3 * time.Second)
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// errorStatus renders err for the status line, without the wrapping chain
// for well-known sentinel errors.
func errorStatus(err error, known ...error) string {
	for _, k := range known {
		if errors.Is(err, k) {
			return "Error: " + k.Error()
		}
	}
	return fmt.Sprintf("Error: %v", err)
}
