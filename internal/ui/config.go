package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/tiledash/internal/config"
	"github.com/javiermolinar/tiledash/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Show the configuration file in use and its values.

Use "config set" to change a single setting; the file is created with
default values when it does not exist yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n\n", a.configPath)
			printConfig(cmd.OutOrStdout(), a.config)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: "Change a setting and save the config file.\n\nKeys: " +
			strings.Join(config.Keys(), ", "),
		Example: `  tiledash config set grid.columns 12
  tiledash config set ui.theme latte`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if strings.EqualFold(key, "ui.theme") && !theme.IsAvailable(strings.ToLower(value)) {
				return fmt.Errorf("unknown theme %q, available: %s", value, strings.Join(theme.Available(), ", "))
			}

			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.SaveTo(a.configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			a.config = cfg

			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", strings.ToLower(key), strings.TrimSpace(value))
			return nil
		},
	})

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, formatHeader("[grid]"))
	fmt.Fprintf(w, "  columns     = %d\n", cfg.Grid.Columns)
	fmt.Fprintf(w, "  rows        = %d\n", cfg.Grid.Rows)
	fmt.Fprintln(w, formatHeader("\n[storage]"))
	fmt.Fprintf(w, "  db_path     = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, formatHeader("\n[ui]"))
	fmt.Fprintf(w, "  theme       = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  cell_width  = %d\n", cfg.UI.CellWidth)
	fmt.Fprintf(w, "  cell_height = %d\n", cfg.UI.CellHeight)
	fmt.Fprintf(w, "  fps         = %d\n", cfg.UI.FPS)
}
