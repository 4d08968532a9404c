package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tiledash/internal/tile"
	"github.com/javiermolinar/tiledash/internal/tui/commands"
)

func (m *Model) openModal(t ModalType) {
	if m.mode != ModeModal {
		m.returnMode = m.mode
	}
	LogModeChange(m.mode, ModeModal, "open modal")
	m.mode = ModeModal
	m.modalType = t
}

func (m *Model) closeModal() {
	LogModeChange(m.mode, m.returnMode, "close modal")
	m.mode = m.returnMode
	m.modalType = ModalNone
	m.confirmTile = nil
	m.formName.Blur()
	m.formName.SetValue("")
}

func (m Model) openAddTile() (tea.Model, tea.Cmd) {
	if m.repo == nil {
		m.statusMsg = "No storage configured"
		return m, nil
	}
	m.formKind = 0
	m.formName.SetValue("")
	m.formName.Focus()
	m.openModal(ModalAddTile)
	return m, textinput.Blink
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalAddTile:
		return m.handleAddTileKeys(msg)
	case ModalConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ModalInit:
		return m.handleInitKeys(msg)
	default:
		if msg.String() == "esc" {
			m.closeModal()
		}
	}
	return m, nil
}

// handleAddTileKeys handles the add tile form. Tab cycles the widget kind.
func (m Model) handleAddTileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "tab":
		m.formKind = (m.formKind + 1) % len(tile.Kinds)
		return m, nil
	case "shift+tab":
		m.formKind = (m.formKind + len(tile.Kinds) - 1) % len(tile.Kinds)
		return m, nil

	case "enter":
		return m.saveTileFromForm()
	}

	var cmd tea.Cmd
	m.formName, cmd = m.formName.Update(msg)
	return m, cmd
}

// saveTileFromForm places a new tile on the board and stores it.
func (m Model) saveTileFromForm() (tea.Model, tea.Cmd) {
	kind := tile.Kinds[m.formKind]
	t, err := tile.New(string(kind), m.formName.Value())
	if err != nil {
		m.statusMsg = errorStatus(err, tile.ErrEmptyName)
		return m, nil
	}
	if err := m.board.Add(t); err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	m.closeModal()
	m.focus = t.ID
	m.statusMsg = "Adding " + t.Name
	return m, commands.CreateTile(m.repo, t)
}

// handleConfirmDeleteKeys handles keys in confirm delete modal.
func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.closeModal()
		return m, nil

	case "enter", "y":
		t := m.confirmTile
		m.closeModal()
		if t == nil {
			return m, nil
		}
		if _, err := m.board.Remove(t.ID); err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", err)
			return m, nil
		}
		m.drag.Cancel()
		if m.focus == t.ID {
			m.focus = ""
		}
		return m, commands.DeleteTile(m.repo, t)
	}
	return m, nil
}

// renderModal renders the current modal.
func (m Model) renderModal() string {
	var title, body, hint string
	switch m.modalType {
	case ModalAddTile:
		title = "Add tile"
		body = m.renderAddTileBody()
		hint = "Tab kind · Enter add · Esc cancel"
	case ModalConfirmDelete:
		if m.confirmTile == nil {
			return ""
		}
		title = "Delete tile"
		body = m.styles.ModalInputTextStyle.Render(
			fmt.Sprintf("Delete %s %q?", m.confirmTile.Kind, m.confirmTile.Name))
		hint = "y delete · n keep"
	case ModalInit:
		title = "Initialize tiledash"
		body = m.renderInitBody()
		hint = "Enter create · Esc quit"
	default:
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitleStyle.Render(title),
		"",
		body,
		"",
		m.styles.ModalHintStyle.Render(hint),
	)
	return m.styles.ModalStyle.Render(content)
}

func (m Model) renderAddTileBody() string {
	kinds := make([]string, len(tile.Kinds))
	for i, k := range tile.Kinds {
		style := m.styles.KindInactiveStyle
		if i == m.formKind {
			style = m.styles.KindActiveStyle
		}
		kinds[i] = style.Render(string(k))
	}
	cols, rows := tile.Kinds[m.formKind].DefaultSize()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalLabelStyle.Render("Name"),
		m.formName.View(),
		"",
		m.styles.ModalLabelStyle.Render(fmt.Sprintf("Kind (%dx%d)", cols, rows)),
		lipgloss.JoinHorizontal(lipgloss.Top, kinds...),
	)
}

func (m Model) renderInitBody() string {
	var lines []string
	if m.initState.ConfigMissing {
		lines = append(lines, "Config:   "+m.initState.ConfigPath)
	}
	if m.initState.DBMissing {
		lines = append(lines, "Database: "+m.initState.DBPath)
	}
	lines = append(lines, "", fmt.Sprintf("Grid: %dx%d cells", m.config.Grid.Columns, m.config.Grid.Rows))
	return m.styles.ModalInputTextStyle.Render(strings.Join(lines, "\n"))
}
