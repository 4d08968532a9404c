// Package ui implements the tiledash command-line interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/tiledash/internal/config"
	"github.com/javiermolinar/tiledash/internal/db"
	"github.com/javiermolinar/tiledash/internal/tile"
	"github.com/javiermolinar/tiledash/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       tile.Repository
	ownsRepo   bool // repo was opened by the app and is closed by Close
	config     *config.Config
	configPath string
	root       *cobra.Command
	logger     *log.Logger

	debug   bool // Enable debug logging in the TUI
	verbose bool
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured database path.
func NewApp(repo tile.Repository, cfg *config.Config) *App {
	a := &App{
		repo:       repo,
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		logger:     newLogger(os.Stderr, log.InfoLevel),
	}

	a.root = &cobra.Command{
		Use:   "tiledash",
		Short: "A terminal dashboard of widget tiles",
		Long: `tiledash arranges widgets (links, notes, service panels) on a fixed grid.

Run without arguments to open the dashboard. Press e to edit the layout:
drag tiles with the mouse, drag the bottom-right corner to resize, s to save.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := log.InfoLevel
			if a.verbose {
				level = log.DebugLevel
			}
			a.logger = newLogger(cmd.ErrOrStderr(), level)

			if a.root.PersistentFlags().Changed("config") {
				cfg, err := config.LoadFrom(a.configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				a.config = cfg
				a.logger.Debug("loaded config", "path", a.configPath)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable TUI debug logging (writes "+tui.DebugLogPath+")")
	a.root.PersistentFlags().StringVar(&a.configPath, "config", a.configPath, "Config file path")
	a.root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.renameCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.resizeCmd())

	return a
}

// newLogger creates a stderr logger with short timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tiledash %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the configured database unless a repository was given.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	start := time.Now()
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.logger.Debug("opened database", "path", path, "elapsed", time.Since(start).Round(time.Millisecond))
	a.repo = repo
	a.ownsRepo = true
	return nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output and errors.
func (a *App) SetOutput(out, errOut io.Writer) {
	a.root.SetOut(out)
	a.root.SetErr(errOut)
}

// Close releases the repository if the app opened it.
func (a *App) Close() error {
	if a.ownsRepo && a.repo != nil {
		return a.repo.Close()
	}
	return nil
}
