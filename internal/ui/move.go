package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tiledash/internal/board"
)

func (a *App) moveCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "move <tile> <x> <y>",
		Short: "Move a tile, displacing others when needed",
		Long: `Drop a tile with its top-left cell at column x, row y.

Occupants are swapped or pushed aside exactly as when dragging in the
dashboard. A blocked move changes nothing.`,
		Example: `  tiledash move "Router admin" 3 2
  tiledash move 3f2a9c 1 1 --dry-run`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}
			t, err := resolveTile(b, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if dryRun {
				printProposal(out, t, b.Grid().Propose(t, x, y))
				return nil
			}

			b.EnterEditMode()
			p, err := b.Move(t.ID, x, y)
			printProposal(out, t, p)
			if err != nil {
				return err
			}
			return a.save(ctx, out, b)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would move without saving")

	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <tile> <cols> <rows>",
		Short: "Change the span of a tile",
		Long: `Resize a tile keeping its top-left cell. The new area must be free.

Example:
  tiledash resize Media 3 2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, rows, err := parseCell(args[1], args[2])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}
			t, err := resolveTile(b, args[0])
			if err != nil {
				return err
			}

			b.EnterEditMode()
			if err := b.Resize(t.ID, cols, rows); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s -> %dx%d\n", formatOK("resize"), t.Name, cols, rows)
			return a.save(ctx, out, b)
		},
	}
}

// save persists pending changes, including any made to fit the grid.
func (a *App) save(ctx context.Context, w io.Writer, b *board.Board) error {
	n := len(b.Changes())
	if err := b.SaveChanges(ctx, a.repo); err != nil {
		return err
	}
	a.logger.Debug("layout saved", "tiles", n)
	if n == 0 {
		fmt.Fprintln(w, formatMuted("Nothing to save"))
		return nil
	}
	fmt.Fprintf(w, "Saved %d tile(s)\n", n)
	return nil
}

// parseCell parses a pair of positive integers.
func parseCell(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil || x < 1 {
		return 0, 0, fmt.Errorf("invalid number %q: must be a positive integer", a)
	}
	y, err := strconv.Atoi(b)
	if err != nil || y < 1 {
		return 0, 0, fmt.Errorf("invalid number %q: must be a positive integer", b)
	}
	return x, y, nil
}
