package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Columns != 10 {
		t.Errorf("expected 10 columns, got %d", cfg.Grid.Columns)
	}
	if cfg.Grid.Rows != 6 {
		t.Errorf("expected 6 rows, got %d", cfg.Grid.Rows)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if cfg.UI.FPS != 60 {
		t.Errorf("expected fps 60, got %d", cfg.UI.FPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Grid.Columns != 10 {
		t.Errorf("expected default columns, got %d", cfg.Grid.Columns)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
columns = 12
rows = 8

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
cell_width = 14
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Columns != 12 || cfg.Grid.Rows != 8 {
		t.Errorf("expected 12x8 grid, got %dx%d", cfg.Grid.Columns, cfg.Grid.Rows)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
	if cfg.UI.CellWidth != 14 {
		t.Errorf("expected cell_width 14, got %d", cfg.UI.CellWidth)
	}
	// Unset keys keep their defaults.
	if cfg.UI.CellHeight != 5 {
		t.Errorf("expected default cell_height 5, got %d", cfg.UI.CellHeight)
	}
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(configPath, []byte("[grid\ncolumns = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for malformed toml")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[grid]
columns = 12
rows = 8

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TILEDASH_GRID_COLUMNS", "16")
	t.Setenv("TILEDASH_UI_THEME", "frappe")
	t.Setenv("TILEDASH_UI_FPS", " 30 ")
	t.Setenv("TILEDASH_DB_PATH", "/tmp/env.db")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Grid.Columns != 16 {
		t.Errorf("expected 16 columns from env, got %d", cfg.Grid.Columns)
	}
	// File value should be kept when no env override
	if cfg.Grid.Rows != 8 {
		t.Errorf("expected 8 rows from file, got %d", cfg.Grid.Rows)
	}
	// Env should override default
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe from env, got %s", cfg.UI.Theme)
	}
	if cfg.UI.FPS != 30 {
		t.Errorf("expected fps 30 from env, got %d", cfg.UI.FPS)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
}

func TestLoadFrom_EnvNotInteger(t *testing.T) {
	t.Setenv("TILEDASH_GRID_ROWS", "six")

	_, err := LoadFrom("/nonexistent/path/config.toml")
	if err == nil || !strings.Contains(err.Error(), "TILEDASH_GRID_ROWS") {
		t.Errorf("expected error naming TILEDASH_GRID_ROWS, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero columns", func(c *Config) { c.Grid.Columns = 0 }, "grid.columns"},
		{"too many columns", func(c *Config) { c.Grid.Columns = MaxGridColumns + 1 }, "grid.columns"},
		{"zero rows", func(c *Config) { c.Grid.Rows = 0 }, "grid.rows"},
		{"narrow cells", func(c *Config) { c.UI.CellWidth = MinCellWidth - 1 }, "ui.cell_width"},
		{"short cells", func(c *Config) { c.UI.CellHeight = 1 }, "ui.cell_height"},
		{"zero fps", func(c *Config) { c.UI.FPS = 0 }, "ui.fps"},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, "db_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("grid.columns", "8"); err != nil {
		t.Fatalf("Set grid.columns: %v", err)
	}
	if cfg.Grid.Columns != 8 {
		t.Errorf("expected 8 columns, got %d", cfg.Grid.Columns)
	}
	if err := cfg.Set("UI.Theme", "latte"); err != nil {
		t.Fatalf("Set ui.theme: %v", err)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}

	// Invalid values leave the config unchanged.
	if err := cfg.Set("grid.rows", "0"); err == nil {
		t.Error("expected error for zero rows")
	}
	if cfg.Grid.Rows != 6 {
		t.Errorf("rows changed to %d after failed Set", cfg.Grid.Rows)
	}
	if err := cfg.Set("grid.rows", "many"); err == nil {
		t.Error("expected error for non-integer rows")
	}
	if err := cfg.Set("llm.model", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Grid.Columns = 8
	cfg.Grid.Rows = 4
	cfg.UI.Theme = "macchiato"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Grid.Columns != 8 || loaded.Grid.Rows != 4 {
		t.Errorf("expected 8x4 grid, got %dx%d", loaded.Grid.Columns, loaded.Grid.Rows)
	}
	if loaded.UI.Theme != "macchiato" {
		t.Errorf("expected theme macchiato, got %s", loaded.UI.Theme)
	}
}
