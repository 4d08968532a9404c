package drag

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/javiermolinar/tiledash/internal/grid"
	"github.com/javiermolinar/tiledash/internal/tile"
)

// Board is the authoritative layout a Controller reads from and commits to.
// *board.Board satisfies it.
type Board interface {
	IsEditing() bool
	Tile(id string) *tile.Tile
	Grid() *grid.Grid
	Commit(src *tile.Tile, p grid.Proposal) error
	Resize(id string, cols, rows int) error
}

// Session is the state of one drag, from pointer-down to pointer-up.
type Session struct {
	Mode   Mode
	TileID string

	down Point // pointer at pointer-down
	last Point // latest recorded pointer
	grab Point // pointer offset from the tile's top-left corner

	startX, startY       int
	startCols, startRows int

	pending bool // a frame is scheduled and not yet run

	// move
	evaluated    bool
	cellX, cellY int
	proposal     grid.Proposal
	ghosts       []Ghost

	// resize: last accepted span
	cols, rows int
}

// Release reports what a pointer-up did. Changed is the "layout changed"
// signal for whoever persists the board.
type Release struct {
	Mode     Mode
	TileID   string
	Proposal grid.Proposal // last move proposal, zero for resize
	Changed  bool
	Err      error // commit rejected by the board
}

// Controller drives drag sessions against a Board.
// It is not safe for concurrent use.
type Controller struct {
	board   Board
	metrics Metrics
	session *Session
	logger  *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for frame and commit events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an idle controller.
func New(b Board, m Metrics, opts ...Option) *Controller {
	c := &Controller{
		board:   b,
		metrics: m,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the current host-to-grid mapping.
func (c *Controller) Metrics() Metrics {
	return c.metrics
}

// SetMetrics updates the host-to-grid mapping, e.g. after a window resize.
func (c *Controller) SetMetrics(m Metrics) {
	c.metrics = m
}

// Mode returns the current drag mode.
func (c *Controller) Mode() Mode {
	if c.session == nil {
		return ModeIdle
	}
	return c.session.Mode
}

// Active returns the id of the dragged tile, or "" when idle.
func (c *Controller) Active() string {
	if c.session == nil {
		return ""
	}
	return c.session.TileID
}

// HitTest returns the tile under p. The bottom-right host unit of a tile is
// its resize handle.
func (c *Controller) HitTest(p Point) (Target, bool) {
	x, y := c.metrics.Cell(p)
	t := c.board.Grid().TileAt(x, y)
	if t == nil {
		return Target{}, false
	}

	corner := c.metrics.CellOrigin(t.Right()+1, t.Bottom()+1)
	handle := p.X >= corner.X-1 && p.Y >= corner.Y-1
	return Target{TileID: t.ID, Handle: handle}, true
}

// PointerDown starts a session on target. It is a no-op outside edit mode,
// while another session is active, or when the tile does not exist.
func (c *Controller) PointerDown(p Point, target Target) bool {
	if c.session != nil || !c.board.IsEditing() {
		return false
	}
	t := c.board.Tile(target.TileID)
	if t == nil {
		return false
	}

	mode := ModeMove
	if target.Handle {
		mode = ModeResize
	}
	topLeft := c.metrics.CellOrigin(t.X, t.Y)
	c.session = &Session{
		Mode:      mode,
		TileID:    t.ID,
		down:      p,
		last:      p,
		grab:      Point{X: p.X - topLeft.X, Y: p.Y - topLeft.Y},
		startX:    t.X,
		startY:    t.Y,
		startCols: t.Cols,
		startRows: t.Rows,
		cols:      t.Cols,
		rows:      t.Rows,
	}
	c.logger.Debug("drag start", "mode", mode, "tile", t.ID, "at", p)
	return true
}

// PointerMove records the latest pointer position. It reports whether the
// host must schedule a frame; while one is pending it returns false.
func (c *Controller) PointerMove(p Point) bool {
	s := c.session
	if s == nil {
		return false
	}
	s.last = p
	if s.pending {
		return false
	}
	s.pending = true
	return true
}

// Frame runs the pending recomputation against a fresh grid snapshot and
// reports whether the preview changed.
func (c *Controller) Frame() bool {
	s := c.session
	if s == nil || !s.pending {
		return false
	}
	s.pending = false

	t := c.board.Tile(s.TileID)
	if t == nil {
		// Removed mid-drag.
		c.logger.Debug("drag dropped", "tile", s.TileID)
		c.session = nil
		return true
	}

	g := c.board.Grid()
	switch s.Mode {
	case ModeMove:
		return c.frameMove(s, t, g)
	case ModeResize:
		return c.frameResize(s, t, g)
	}
	return false
}

func (c *Controller) frameMove(s *Session, t *tile.Tile, g *grid.Grid) bool {
	dx, dy := c.metrics.steps(s.down, s.last)
	x := clamp(s.startX+dx, 1, g.Cols()-t.Cols+1)
	y := clamp(s.startY+dy, 1, g.Rows()-t.Rows+1)

	if s.evaluated && x == s.cellX && y == s.cellY {
		return false
	}
	s.evaluated = true
	s.cellX, s.cellY = x, y

	p := g.Propose(t, x, y)
	s.proposal = p
	s.ghosts = ghostsFor(t, x, y, p)
	c.logger.Debug("frame", "tile", t.ID, "x", x, "y", y, "proposal", p)
	return true
}

func (c *Controller) frameResize(s *Session, t *tile.Tile, g *grid.Grid) bool {
	dx, dy := c.metrics.steps(s.down, s.last)
	cols := clamp(s.startCols+dx, 1, g.Cols()-t.X+1)
	rows := clamp(s.startRows+dy, 1, g.Rows()-t.Y+1)

	if cols == s.cols && rows == s.rows {
		return false
	}
	if !g.IsAreaFree(t.X, t.Y, cols, rows, t.ID) {
		return false
	}
	s.cols, s.rows = cols, rows
	c.logger.Debug("frame", "tile", t.ID, "cols", cols, "rows", rows)
	return true
}

func ghostsFor(t *tile.Tile, x, y int, p grid.Proposal) []Ghost {
	if !p.Possible() {
		return []Ghost{{TileID: t.ID, Kind: GhostInvalid, Rect: t.RectAt(x, y)}}
	}
	out := make([]Ghost, 0, len(p.Displaced)+1)
	out = append(out, Ghost{TileID: t.ID, Kind: GhostValid, Rect: t.RectAt(p.X, p.Y)})
	for _, d := range p.Displaced {
		out = append(out, Ghost{TileID: d.Tile.ID, Kind: GhostDisplaced, Rect: d.Rect()})
	}
	return out
}

// Ghosts returns the preview rectangles of the active move.
func (c *Controller) Ghosts() []Ghost {
	if c.session == nil || c.session.Mode != ModeMove {
		return nil
	}
	out := make([]Ghost, len(c.session.ghosts))
	copy(out, c.session.ghosts)
	return out
}

// Floating returns where the dragged tile's top-left corner follows the
// pointer, in host units.
func (c *Controller) Floating() (Point, bool) {
	s := c.session
	if s == nil || s.Mode != ModeMove {
		return Point{}, false
	}
	return Point{X: s.last.X - s.grab.X, Y: s.last.Y - s.grab.Y}, true
}

// Preview returns the footprint to draw for t. During a resize of t that is
// the last accepted span; otherwise the tile's own footprint.
func (c *Controller) Preview(t *tile.Tile) tile.Rect {
	s := c.session
	if s == nil || s.Mode != ModeResize || s.TileID != t.ID {
		return t.Rect()
	}
	return tile.Rect{X: t.X, Y: t.Y, W: s.cols, H: s.rows}
}

// PointerUp ends the session and commits its result. A pending frame is
// dropped; the commit uses what the last frame computed.
func (c *Controller) PointerUp() Release {
	s := c.session
	if s == nil {
		return Release{}
	}
	c.session = nil

	rel := Release{Mode: s.Mode, TileID: s.TileID}
	t := c.board.Tile(s.TileID)
	if t == nil {
		return rel
	}

	switch s.Mode {
	case ModeMove:
		rel.Proposal = s.proposal
		if !s.evaluated || !s.proposal.Possible() || s.proposal.Noop(t) {
			break
		}
		if err := c.board.Commit(t, s.proposal); err != nil {
			rel.Err = err
			break
		}
		rel.Changed = true
	case ModeResize:
		if s.cols == t.Cols && s.rows == t.Rows {
			break
		}
		if err := c.board.Resize(t.ID, s.cols, s.rows); err != nil {
			rel.Err = err
			break
		}
		rel.Changed = true
	}

	if rel.Err != nil {
		c.logger.Warn("commit rejected", "tile", t.ID, "mode", s.Mode, "err", rel.Err)
	} else {
		c.logger.Debug("drag end", "tile", t.ID, "mode", s.Mode, "changed", rel.Changed)
	}
	return rel
}

// Cancel drops the active session without committing.
func (c *Controller) Cancel() {
	if c.session != nil {
		c.logger.Debug("drag cancelled", "tile", c.session.TileID)
	}
	c.session = nil
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
