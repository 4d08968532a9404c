package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <tile>",
		Aliases: []string{"rm"},
		Short:   "Remove a tile",
		Long: `Remove a tile by id, id prefix or name.

Example:
  tiledash remove "Router admin"
  tiledash rm 3f2a9c`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}
			t, err := resolveTile(b, args[0])
			if err != nil {
				return err
			}

			if err := a.repo.DeleteTile(ctx, t.ID); err != nil {
				return fmt.Errorf("deleting tile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", formatKind(t.Kind), t.Name)
			return nil
		},
	}
}

func (a *App) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tile> <name>",
		Short: "Rename a tile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := a.loadBoard(ctx)
			if err != nil {
				return err
			}
			t, err := resolveTile(b, args[0])
			if err != nil {
				return err
			}

			if err := a.repo.RenameTile(ctx, t.ID, args[1]); err != nil {
				return fmt.Errorf("renaming tile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", t.Name, args[1])
			return nil
		},
	}
}
