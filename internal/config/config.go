// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// GridConfig holds the dashboard dimensions in cells.
type GridConfig struct {
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme      string `toml:"theme"`       // "mocha", "macchiato", "frappe", "latte", "light"
	CellWidth  int    `toml:"cell_width"`  // terminal columns per grid cell
	CellHeight int    `toml:"cell_height"` // terminal rows per grid cell
	FPS        int    `toml:"fps"`         // drag preview frames per second
}

// Limits enforced by Validate.
const (
	MaxGridColumns = 24
	MaxGridRows    = 16
	MinCellWidth   = 6
	MinCellHeight  = 3
	MaxFPS         = 120
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Columns: 10,
			Rows:    6,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:      "mocha",
			CellWidth:  12,
			CellHeight: 5,
			FPS:        60,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tiledash.db"
	}
	return filepath.Join(home, ".local", "share", "tiledash", "tiledash.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tiledash", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"TILEDASH_GRID_COLUMNS", &cfg.Grid.Columns},
		{"TILEDASH_GRID_ROWS", &cfg.Grid.Rows},
		{"TILEDASH_UI_CELL_WIDTH", &cfg.UI.CellWidth},
		{"TILEDASH_UI_CELL_HEIGHT", &cfg.UI.CellHeight},
		{"TILEDASH_UI_FPS", &cfg.UI.FPS},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", o.env, v)
		}
		*o.dst = n
	}

	if v := os.Getenv("TILEDASH_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TILEDASH_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.Columns < 1 || c.Grid.Columns > MaxGridColumns {
		return fmt.Errorf("grid.columns must be between 1 and %d, got %d", MaxGridColumns, c.Grid.Columns)
	}
	if c.Grid.Rows < 1 || c.Grid.Rows > MaxGridRows {
		return fmt.Errorf("grid.rows must be between 1 and %d, got %d", MaxGridRows, c.Grid.Rows)
	}
	if c.UI.CellWidth < MinCellWidth {
		return fmt.Errorf("ui.cell_width must be at least %d, got %d", MinCellWidth, c.UI.CellWidth)
	}
	if c.UI.CellHeight < MinCellHeight {
		return fmt.Errorf("ui.cell_height must be at least %d, got %d", MinCellHeight, c.UI.CellHeight)
	}
	if c.UI.FPS < 1 || c.UI.FPS > MaxFPS {
		return fmt.Errorf("ui.fps must be between 1 and %d, got %d", MaxFPS, c.UI.FPS)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Set updates a single setting addressed as "section.key", e.g. "grid.columns".
// The result is validated; on error the config is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	value = strings.TrimSpace(value)

	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		return n, nil
	}

	var err error
	switch strings.ToLower(key) {
	case "grid.columns":
		next.Grid.Columns, err = atoi()
	case "grid.rows":
		next.Grid.Rows, err = atoi()
	case "storage.db_path":
		next.Storage.DBPath = expandPath(value)
	case "ui.theme":
		next.UI.Theme = value
	case "ui.cell_width":
		next.UI.CellWidth, err = atoi()
	case "ui.cell_height":
		next.UI.CellHeight, err = atoi()
	case "ui.fps":
		next.UI.FPS, err = atoi()
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	if err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*c = next
	return nil
}

// Keys lists the settings accepted by Set, in file order.
func Keys() []string {
	return []string{
		"grid.columns",
		"grid.rows",
		"storage.db_path",
		"ui.theme",
		"ui.cell_width",
		"ui.cell_height",
		"ui.fps",
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
