package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tiledash/internal/drag"
	"github.com/javiermolinar/tiledash/internal/tile"
)

const (
	emptyCellGlyph = '·'
	handleGlyph    = '◢'
)

// View renders the header, the grid and the footer, with the active modal
// on top.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.gridCanvas().String(),
		m.renderFooter(),
	)
	app := m.styles.AppStyle.Render(content)

	if m.mode == ModeModal && m.modalType != ModalNone {
		return placeOverlay(app, m.width, m.height, m.renderModal())
	}
	return app
}

// editing reports whether the layout is being edited, including while a
// modal sits on top of edit mode.
func (m Model) editing() bool {
	return m.mode == ModeEdit || (m.mode == ModeModal && m.returnMode == ModeEdit)
}

func (m Model) renderHeader() string {
	parts := []string{m.styles.TitleStyle.Render("tiledash")}
	parts = append(parts, m.styles.HelpStyle.Render(
		fmt.Sprintf(" %dx%d ", m.board.Cols(), m.board.Rows())))
	if m.editing() {
		parts = append(parts, m.styles.EditBadgeStyle.Render("EDIT"))
	}
	if n := len(m.board.Changes()); n > 0 {
		parts = append(parts, m.styles.DirtyStyle.Render(fmt.Sprintf(" ● %d unsaved", n)))
	}
	if m.loading {
		parts = append(parts, m.styles.HiddenStyle.Render(" loading…"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// gridCanvas paints the board: free cells, tiles at their preview
// footprint, then the move ghosts and the floating tile.
func (m Model) gridCanvas() *canvas {
	cw, ch := max(m.cellW, 1), max(m.cellH, 1)
	c := newCanvas(m.board.Cols()*cw, m.board.Rows()*ch, m.styles.BgStyle, ' ')

	editing := m.editing()
	if editing {
		empty := c.addStyle(m.styles.EmptyCellStyle)
		g := m.board.Grid()
		for y := 1; y <= m.board.Rows(); y++ {
			for x := 1; x <= m.board.Cols(); x++ {
				if g.At(x, y) == "" {
					c.set((x-1)*cw, (y-1)*ch, emptyCellGlyph, empty)
				}
			}
		}
	}

	active := m.drag.Active()
	moving := m.drag.Mode() == drag.ModeMove
	handle := c.addStyle(m.styles.HandleStyle)

	var dragged *tile.Tile
	for _, t := range m.board.Tiles() {
		r := m.drag.Preview(t)
		if moving && t.ID == active {
			dragged = t
			src := c.addStyle(m.styles.SourceStyle)
			c.fill((r.X-1)*cw, (r.Y-1)*ch, r.W*cw, r.H*ch, ' ', src)
			c.text((r.X-1)*cw+1, (r.Y-1)*ch, r.W*cw-2, t.Name, src)
			continue
		}
		m.paintTile(c, t, (r.X-1)*cw, (r.Y-1)*ch, r.W*cw, r.H*ch, t.ID == m.focus)
		if editing {
			c.set((r.X-1+r.W)*cw-1, (r.Y-1+r.H)*ch-1, handleGlyph, handle)
		}
	}

	for _, gh := range m.drag.Ghosts() {
		st := m.styles.GhostValidStyle
		label := "drop"
		switch gh.Kind {
		case drag.GhostInvalid:
			st = m.styles.GhostInvalidStyle
			label = "blocked"
		case drag.GhostDisplaced:
			st = m.styles.GhostDisplacedStyle
			label = "→ " + m.tileName(gh.TileID)
		}
		idx := c.addStyle(st)
		r := gh.Rect
		c.fill((r.X-1)*cw, (r.Y-1)*ch, r.W*cw, r.H*ch, ' ', idx)
		c.text((r.X-1)*cw+1, (r.Y-1)*ch, r.W*cw-2, label, idx)
	}

	if dragged != nil {
		if p, ok := m.drag.Floating(); ok {
			mt := m.drag.Metrics()
			x := int(math.Round(p.X - mt.OriginX))
			y := int(math.Round(p.Y - mt.OriginY))
			m.paintTile(c, dragged, x, y, dragged.Cols*cw, dragged.Rows*ch, true)
		}
	}

	return c
}

// paintTile draws a tile body of w x h terminal cells at canvas (x, y): a
// title row, then the kind.
func (m Model) paintTile(c *canvas, t *tile.Tile, x, y, w, h int, focused bool) {
	body := c.addStyle(m.styles.TileStyle(t.Kind, focused))
	header := c.addStyle(m.styles.TileHeaderStyle(t.Kind, focused))

	c.fill(x, y, w, h, ' ', body)
	c.set(x, y, '▌', header)
	c.text(x+1, y, w-2, t.Name, header)
	if h > 1 {
		c.text(x+1, y+1, w-2, string(t.Kind), body)
	}
}

func (m Model) tileName(id string) string {
	if t := m.board.Tile(id); t != nil {
		return t.Name
	}
	return id
}

func (m Model) renderFooter() string {
	status := m.statusMsg
	if status == "" && m.err != nil {
		status = fmt.Sprintf("Error: %v", m.err)
	}
	statusLine := m.styles.StatusStyle.Render(status)
	if n := len(m.board.Hidden()); n > 0 {
		statusLine = lipgloss.JoinHorizontal(lipgloss.Top, statusLine,
			m.styles.HiddenStyle.Render(fmt.Sprintf("  %d hidden", n)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, statusLine, m.styles.HelpStyle.Render(m.helpText()))
}

func (m Model) helpText() string {
	var keys []string
	switch {
	case m.mode == ModeModal:
		return ""
	case m.mode == ModeEdit && m.drag.Mode() != drag.ModeIdle:
		keys = []string{"drop: release", "esc: cancel"}
	case m.mode == ModeEdit:
		keys = []string{"drag: move", "◢: resize", "hjkl: move", "HJKL: resize", "u: undo", "s: save", "enter: save+exit", "esc: discard"}
	default:
		keys = []string{"e: edit", "tab: focus", "a: add", "x: delete", "y: copy", "r: reload", "q: quit"}
	}
	return strings.Join(keys, " · ")
}
