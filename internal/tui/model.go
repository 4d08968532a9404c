package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tiledash/internal/board"
	"github.com/javiermolinar/tiledash/internal/config"
	"github.com/javiermolinar/tiledash/internal/drag"
	"github.com/javiermolinar/tiledash/internal/tile"
	"github.com/javiermolinar/tiledash/internal/tui/commands"
	"github.com/javiermolinar/tiledash/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEdit        // layout changes are in-memory until saved
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEdit:
		return "edit"
	case ModeModal:
		return "modal"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalAddTile
	ModalConfirmDelete
	ModalInit
)

// Screen layout, in terminal cells.
const (
	headerLines  = 1
	footerLines  = 2
	marginX      = 1
	minCellWidth = 4
	minCellLines = 2
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   tile.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Authoritative layout and the drag session on top of it
	board *board.Board
	drag  *drag.Controller

	// State
	mode       Mode
	returnMode Mode   // mode to restore when a modal closes
	focus      string // id of the focused tile
	loading    bool

	// Modal state
	modalType   ModalType
	formName    textinput.Model
	formKind    int // index into tile.Kinds
	confirmTile *tile.Tile
	initState   InitState

	// Terminal dimensions and cell size
	width         int
	height        int
	cellW         int
	cellH         int
	frameInterval time.Duration

	// Messages
	statusMsg  string
	statusTime time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithInitState sets the startup initialization state.
func WithInitState(state InitState) ModelOption {
	return func(m *Model) {
		m.initState = state
		if state.NeedsInit {
			m.mode = ModeModal
			m.modalType = ModalInit
		}
	}
}

// New creates a new TUI model.
func New(repo tile.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	formName := textinput.New()
	formName.Placeholder = "Tile name"
	formName.CharLimit = 64
	formName.Width = 32
	formName.PlaceholderStyle = styles.ModalPlaceholderStyle
	formName.TextStyle = styles.ModalInputTextStyle
	formName.PromptStyle = styles.ModalInputTextStyle
	formName.Cursor.Style = styles.ModalInputCursorStyle

	b := board.New(cfg.Grid.Columns, cfg.Grid.Rows)
	fps := max(cfg.UI.FPS, 1)

	m := &Model{
		repo:          repo,
		config:        cfg,
		theme:         t,
		styles:        styles,
		board:         b,
		mode:          ModeNormal,
		formName:      formName,
		cellW:         cfg.UI.CellWidth,
		cellH:         cfg.UI.CellHeight,
		frameInterval: time.Second / time.Duration(fps),
		loading:       repo != nil,
	}
	m.drag = drag.New(b, m.metrics(), drag.WithLogger(DebugLogger()))

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// metrics maps terminal cells to grid cells for the current cell size.
func (m Model) metrics() drag.Metrics {
	return drag.Metrics{
		OriginX: marginX,
		OriginY: headerLines,
		CellW:   float64(m.cellW),
		CellH:   float64(m.cellH),
	}
}

// fitCells shrinks the configured cell size so the grid fits the terminal.
func (m *Model) fitCells() {
	cols, rows := m.board.Cols(), m.board.Rows()
	m.cellW = m.config.UI.CellWidth
	m.cellH = m.config.UI.CellHeight

	if availW := m.width - 2*marginX; availW > 0 && cols*m.cellW > availW {
		m.cellW = max(minCellWidth, availW/cols)
	}
	if availH := m.height - headerLines - footerLines; availH > 0 && rows*m.cellH > availH {
		m.cellH = max(minCellLines, availH/rows)
	}
	m.drag.SetMetrics(m.metrics())
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.initState.NeedsInit || m.repo == nil {
		return nil
	}
	return commands.LoadTiles(m.repo)
}

// Run starts the TUI.
func Run(repo tile.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo tile.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	initialRepo := repo
	var initState InitState

	if repo == nil {
		state, err := DetectInitState(cfg)
		if err != nil {
			return err
		}
		initState = state
		if !state.NeedsInit {
			repo, err = openRepo(state.DBPath)
			if err != nil {
				return err
			}
		}
	}

	model := New(repo, cfg, WithInitState(initState))
	p := tea.NewProgram(*model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if initialRepo == nil {
		if m, ok := finalModel.(Model); ok && m.repo != nil {
			_ = m.repo.Close()
		}
	}
	return err
}
