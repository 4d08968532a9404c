package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/tiledash/internal/board"
	"github.com/javiermolinar/tiledash/internal/config"
	"github.com/javiermolinar/tiledash/internal/db"
	"github.com/javiermolinar/tiledash/internal/tile"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

type testEnv struct {
	t          *testing.T
	repo       *db.SQLite
	cfg        *config.Config
	configPath string
}

// newTestEnv opens a temp database for a 4x3 grid.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Grid.Columns = 4
	cfg.Grid.Rows = 3
	cfg.Storage.DBPath = filepath.Join(dir, "tiledash.db")

	repo, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		t.Fatalf("creating repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	return &testEnv{t: t, repo: repo, cfg: cfg, configPath: filepath.Join(dir, "config.toml")}
}

// run executes one command line and returns its stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(e.repo, e.cfg)
	app.configPath = e.configPath
	app.SetOutput(&out, &errOut)
	app.SetArgs(args)
	err := app.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func (e *testEnv) sketch() string {
	e.t.Helper()
	out := e.mustRun("list", "--sketch")
	grid, _, _ := strings.Cut(out, "\n\n")
	return strings.ReplaceAll(strings.TrimRight(grid, "\n"), "\n", "|")
}

func TestAddAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("add", "link", "Router")
	if !strings.HasPrefix(out, "Added link Router ") || !strings.Contains(out, "(1x1 at 1,1)") {
		t.Fatalf("add output = %q", out)
	}
	env.mustRun("add", "note", "Team", "notes")
	env.mustRun("add", "pihole", "DNS", "--x=3", "--y=2")

	if got, want := env.sketch(), "ABB.|..CC|..CC"; got != want {
		t.Fatalf("sketch = %q, want %q", got, want)
	}

	out = env.mustRun("list")
	for _, want := range []string{"=== 4x3 grid ===", "ABB.", "Team notes", "(2x2 at 3,2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q:\n%s", want, out)
		}
	}
}

func TestAdd_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "jellyfin", "Media", "--cols=4", "--rows=2")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "bad_kind", args: []string{"add", "clock", "Time"}, wantErr: tile.ErrInvalidKind},
		{name: "overlap", args: []string{"add", "link", "A", "--x=1", "--y=1"}, wantErr: tile.ErrOverlap},
		{name: "out_of_bounds", args: []string{"add", "note", "A", "--x=4", "--y=3"}, wantErr: tile.ErrOutOfBounds},
		{name: "no_space", args: []string{"add", "pihole", "A"}, wantErr: board.ErrNoSpace},
		{name: "negative_span", args: []string{"add", "link", "A", "--cols=-1"}, wantErr: tile.ErrInvalidSpan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if got, want := env.sketch(), "AAAA|AAAA|...."; got != want {
		t.Fatalf("sketch = %q, want %q", got, want)
	}
}

func TestMove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "link", "Router")
	env.mustRun("add", "note", "Notes")

	out := env.mustRun("move", "Router", "1", "2", "--dry-run")
	if !strings.Contains(out, "move Router -> 1,2") {
		t.Fatalf("dry run output = %q", out)
	}
	if got := env.sketch(); got != "ABB.|....|...." {
		t.Fatalf("dry run changed the layout: %q", got)
	}

	out = env.mustRun("move", "router", "1", "2")
	if !strings.Contains(out, "Saved 1 tile(s)") {
		t.Fatalf("move output = %q", out)
	}
	if got, want := env.sketch(), ".BB.|A...|...."; got != want {
		t.Fatalf("sketch = %q, want %q", got, want)
	}
}

func TestMove_Blocked(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "link", "Router")
	env.mustRun("add", "note", "Notes")

	out, err := env.run("move", "Notes", "4", "1")
	if !errors.Is(err, board.ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	if !strings.Contains(out, "blocked Notes: bounds") {
		t.Fatalf("output = %q", out)
	}
	if got := env.sketch(); got != "ABB.|....|...." {
		t.Fatalf("blocked move changed the layout: %q", got)
	}
}

func TestResize(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "link", "Router")
	env.mustRun("add", "note", "Notes")

	env.mustRun("resize", "Router", "1", "3")
	if got, want := env.sketch(), "ABB.|A...|A..."; got != want {
		t.Fatalf("sketch = %q, want %q", got, want)
	}

	if _, err := env.run("resize", "Router", "2", "1"); !errors.Is(err, board.ErrBlocked) {
		t.Fatalf("err = %v, want ErrBlocked", err)
	}
	if _, err := env.run("resize", "Router", "0", "1"); err == nil {
		t.Fatal("zero span should be rejected")
	}
}

func TestRemoveAndRename(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "link", "Router")
	env.mustRun("add", "note", "Notes")

	out := env.mustRun("rename", "Notes", "Todo")
	if out != "Renamed Notes to Todo\n" {
		t.Fatalf("rename output = %q", out)
	}

	out = env.mustRun("rm", "router")
	if out != "Removed link Router\n" {
		t.Fatalf("remove output = %q", out)
	}
	list := env.mustRun("list", "--sketch")
	if want := ".AA.\n....\n....\n\nA  note     Todo (2x1 at 2,1)\n"; list != want {
		t.Fatalf("list = %q, want %q", list, want)
	}

	if _, err := env.run("rm", "Router"); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestResolveTile(t *testing.T) {
	b := board.New(4, 3)
	b.Load([]*tile.Tile{
		{ID: "aaaa1111", Kind: tile.KindLink, Name: "Router", X: 1, Y: 1, Cols: 1, Rows: 1},
		{ID: "aaaa2222", Kind: tile.KindLink, Name: "Twin", X: 2, Y: 1, Cols: 1, Rows: 1},
		{ID: "bbbb3333", Kind: tile.KindLink, Name: "Twin", X: 3, Y: 1, Cols: 1, Rows: 1},
		{ID: "cccc4444", Kind: tile.KindGlances, Name: "Huge", X: 9, Y: 9, Cols: 4, Rows: 3},
	})

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{ref: "aaaa1111", wantID: "aaaa1111"},
		{ref: "bbbb", wantID: "bbbb3333"},
		{ref: "ROUTER", wantID: "aaaa1111"},
		{ref: "cccc", wantID: "cccc4444"},
		{ref: "aaaa", wantErr: ErrAmbiguous},
		{ref: "twin", wantErr: ErrAmbiguous},
		{ref: "bbb", wantErr: ErrNoMatch},
		{ref: "nope", wantErr: ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveTile(b, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Fatalf("id = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestConfigSet(t *testing.T) {
	env := newTestEnv(t)

	if out := env.mustRun("config", "path"); out != env.configPath+"\n" {
		t.Fatalf("path output = %q", out)
	}

	out := env.mustRun("config", "set", "grid.columns", "12")
	if out != "grid.columns = 12\n" {
		t.Fatalf("set output = %q", out)
	}
	cfg, err := config.LoadFrom(env.configPath)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Grid.Columns != 12 {
		t.Fatalf("columns = %d, want 12", cfg.Grid.Columns)
	}

	for _, args := range [][]string{
		{"config", "set", "ui.theme", "nope"},
		{"config", "set", "grid.rows", "many"},
		{"config", "set", "grid.depth", "3"},
	} {
		if _, err := env.run(args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	if out := env.mustRun("version"); out != "tiledash dev (commit: none)\n" {
		t.Fatalf("version output = %q", out)
	}
}
