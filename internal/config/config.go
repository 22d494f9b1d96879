// Package config loads gridstorm configuration from TOML with
// environment overrides, and watches the file for live reload.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gridstorm/internal/sheet"
)

// Config is the full gridstorm configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	History HistoryConfig `toml:"history"`
	UI      UIConfig      `toml:"ui"`
	Eval    EvalConfig    `toml:"eval"`
}

// GridConfig fixes the sheet dimensions.
type GridConfig struct {
	Rows int `toml:"rows"`
	Cols int `toml:"cols"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"`
}

// UIConfig controls the terminal grid rendering.
type UIConfig struct {
	// CellWidth is the rendered width of one cell in characters.
	CellWidth int `toml:"cell_width"`
}

// EvalConfig controls formula evaluation.
type EvalConfig struct {
	// SleepEnabled keeps real SLEEP delays. Off, SLEEP formulas yield
	// their value immediately.
	SleepEnabled bool `toml:"sleep_enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid:    GridConfig{Rows: 100, Cols: 100},
		History: HistoryConfig{MaxEntries: 100},
		UI:      UIConfig{CellWidth: 9},
		Eval:    EvalConfig{SleepEnabled: true},
	}
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. A missing file is not an error: defaults plus
// environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from GRIDSTORM_* variables.
func (c *Config) applyEnv() {
	envInt("GRIDSTORM_ROWS", &c.Grid.Rows)
	envInt("GRIDSTORM_COLS", &c.Grid.Cols)
	envInt("GRIDSTORM_MAX_UNDO", &c.History.MaxEntries)
	envInt("GRIDSTORM_CELL_WIDTH", &c.UI.CellWidth)
	envBool("GRIDSTORM_SLEEP", &c.Eval.SleepEnabled)
}

func envInt(key string, dst *int) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			*dst = v
		}
	}
}

func envBool(key string, dst *bool) {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			*dst = v
		}
	}
}

// Validate checks the configuration against the engine limits.
func (c *Config) Validate() error {
	if c.Grid.Rows < 1 || c.Grid.Rows > sheet.MaxRows {
		return fmt.Errorf("%w: rows %d outside 1..%d", ErrInvalidConfig, c.Grid.Rows, sheet.MaxRows)
	}
	if c.Grid.Cols < 1 || c.Grid.Cols > sheet.MaxCols {
		return fmt.Errorf("%w: cols %d outside 1..%d", ErrInvalidConfig, c.Grid.Cols, sheet.MaxCols)
	}
	if c.History.MaxEntries < 1 {
		return fmt.Errorf("%w: max_entries %d must be positive", ErrInvalidConfig, c.History.MaxEntries)
	}
	if c.UI.CellWidth < 3 {
		return fmt.Errorf("%w: cell_width %d too narrow", ErrInvalidConfig, c.UI.CellWidth)
	}
	return nil
}
