package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tiledash/internal/tile"
)

func (a *App) addCmd() *cobra.Command {
	var (
		x, y       int
		cols, rows int
	)

	cmd := &cobra.Command{
		Use:   "add <kind> <name>",
		Short: "Add a tile",
		Long: `Add a widget tile to the dashboard.

Kinds: link, note, pihole, glances, jellyfin. Without --x/--y the tile goes
to the first free area, scanning row by row.`,
		Example: `  tiledash add link "Router admin"
  tiledash add jellyfin Media --cols=3 --rows=2
  tiledash add note Todo --x=5 --y=1`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tile.New(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if cols < 0 || rows < 0 {
				return tile.ErrInvalidSpan
			}
			if cols > 0 {
				t.Cols = cols
			}
			if rows > 0 {
				t.Rows = rows
			}

			ctx := cmd.Context()
			b, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}

			switch {
			case x == 0 && y == 0:
				if err := b.Add(t); err != nil {
					return err
				}
			case x < 1 || y < 1:
				return fmt.Errorf("--x and --y must both be set and positive")
			default:
				if !t.RectAt(x, y).InBounds(b.Cols(), b.Rows()) {
					return fmt.Errorf("%dx%d at %d,%d: %w", t.Cols, t.Rows, x, y, tile.ErrOutOfBounds)
				}
				if !b.Grid().IsAreaFree(x, y, t.Cols, t.Rows) {
					return fmt.Errorf("%dx%d at %d,%d: %w", t.Cols, t.Rows, x, y, tile.ErrOverlap)
				}
				t.X, t.Y = x, y
			}

			if err := a.repo.CreateTile(ctx, t); err != nil {
				return fmt.Errorf("creating tile: %w", err)
			}
			a.logger.Debug("tile created", "id", t.ID, "rect", t.Rect())

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (%dx%d at %d,%d)\n",
				formatKind(t.Kind), t.Name, formatMuted(shortID(t.ID)), t.Cols, t.Rows, t.X, t.Y)
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 0, "Column of the top-left cell (1-based)")
	cmd.Flags().IntVar(&y, "y", 0, "Row of the top-left cell (1-based)")
	cmd.Flags().IntVar(&cols, "cols", 0, "Width in cells (default: kind's default)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Height in cells (default: kind's default)")

	return cmd
}
