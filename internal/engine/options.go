package engine

import "github.com/dshills/gridstorm/internal/sheet/graph"

// Default grid dimensions when the caller configures none.
const (
	DefaultRows = 100
	DefaultCols = 100
)

// Options configures a new Engine. The zero value is usable: a
// DefaultRows x DefaultCols grid, default undo depth and real SLEEP
// delays.
type Options struct {
	// Rows and Cols fix the grid dimensions. Zero means the default;
	// out-of-range values are rejected by the cell store.
	Rows int
	Cols int

	// MaxUndo bounds the undo stack. Zero means the history default.
	MaxUndo int

	// Sleep replaces the delay used by SLEEP formulas. Nil means real
	// time.Sleep.
	Sleep graph.SleepFunc
}

func (o *Options) normalize() {
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
}
