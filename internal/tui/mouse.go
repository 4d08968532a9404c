package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tiledash/internal/drag"
	"github.com/javiermolinar/tiledash/internal/grid"
)

// handleMouseMsg routes left-button presses, motion and releases to the
// drag controller. Motion only records the pointer; the recomputation runs
// on the next frame tick.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeModal {
		return m, nil
	}
	p := drag.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		target, ok := m.drag.HitTest(p)
		if !ok {
			m.focus = ""
			return m, nil
		}
		m.focus = target.TileID
		started := m.drag.PointerDown(p, target)
		LogPointer("down", p, started)
		if !started && m.mode == ModeNormal {
			m.statusMsg = "Press e to edit the layout"
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.Mode() == drag.ModeIdle {
			return m, nil
		}
		if m.drag.PointerMove(p) {
			return m, m.scheduleFrame()
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.drag.Mode() == drag.ModeIdle {
			return m, nil
		}
		// The release position is the final pointer; it is recorded but a
		// frame that has not run yet is dropped.
		m.drag.PointerMove(p)
		rel := m.drag.PointerUp()
		LogRelease(rel)
		return m.applyRelease(rel)
	}

	return m, nil
}

// scheduleFrame returns a command delivering frameMsg after one frame.
func (m Model) scheduleFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m Model) applyRelease(rel drag.Release) (tea.Model, tea.Cmd) {
	t := m.board.Tile(rel.TileID)
	switch {
	case rel.Err != nil:
		return m.setStatus(fmt.Sprintf("Error: %v", rel.Err))
	case !rel.Changed:
		if rel.Mode == drag.ModeMove && rel.Proposal.Reason != grid.ReasonNone {
			return m.setStatus(fmt.Sprintf("Blocked: %s", rel.Proposal.Reason))
		}
		return m, nil
	case t == nil:
		return m, nil
	case rel.Mode == drag.ModeResize:
		m.statusMsg = fmt.Sprintf("Resized %s to %dx%d (unsaved)", t.Name, t.Cols, t.Rows)
	default:
		m.statusMsg = fmt.Sprintf("Moved %s (unsaved)", t.Name)
	}
	return m, nil
}
