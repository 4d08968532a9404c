package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tiledash/internal/board"
)

func (a *App) listCmd() *cobra.Command {
	var sketchOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the dashboard layout and its tiles",
		Long: `Draw the layout as text, one letter per tile, followed by a table of
tiles with their ids, kinds, positions and spans.

Tiles that do not fit the configured grid are listed as hidden.`,
		Example: `  tiledash list
  tiledash list --sketch | pbcopy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := a.loadBoard(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sketchOnly {
				_, err := io.WriteString(out, b.Sketch())
				return err
			}
			printBoard(out, b, termWidth())
			return nil
		},
	}

	cmd.Flags().BoolVar(&sketchOnly, "sketch", false, "Print only the plain text sketch")

	return cmd
}

// printBoard writes the grid drawing and a tile table no wider than width.
func printBoard(w io.Writer, b *board.Board, width int) {
	fmt.Fprintln(w, formatHeader(fmt.Sprintf("=== %dx%d grid ===", b.Cols(), b.Rows())))

	sketch := b.Sketch()
	grid, _, _ := strings.Cut(sketch, "\n\n")
	for _, line := range strings.Split(strings.TrimRight(grid, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	tiles := b.Tiles()
	hidden := b.Hidden()
	if len(tiles) == 0 && len(hidden) == 0 {
		fmt.Fprintln(w, "\nNo tiles yet. Add one with: tiledash add <kind> <name>")
		return
	}

	fmt.Fprintln(w)
	// Letter, id and kind take 26 cells and the span up to 18.
	nameW := max(width-26-18, 8)
	for i, t := range tiles {
		fmt.Fprintf(w, "  %c  %s  %s%s  %s\n",
			board.SketchLetter(i),
			formatMuted(shortID(t.ID)),
			formatKind(t.Kind),
			strings.Repeat(" ", max(8-len(t.Kind), 0)),
			fmt.Sprintf("%s %s",
				ansi.Truncate(t.Name, nameW, "…"),
				formatMuted(fmt.Sprintf("(%dx%d at %d,%d)", t.Cols, t.Rows, t.X, t.Y))),
		)
	}
	for _, t := range hidden {
		fmt.Fprintf(w, "  -  %s  %s%s  %s %s\n",
			formatMuted(shortID(t.ID)),
			formatKind(t.Kind),
			strings.Repeat(" ", max(8-len(t.Kind), 0)),
			ansi.Truncate(t.Name, nameW, "…"),
			formatWarn("(hidden)"),
		)
	}
}
