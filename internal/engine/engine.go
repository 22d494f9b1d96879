package engine

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/sheet"
	"github.com/dshills/gridstorm/internal/sheet/formula"
	"github.com/dshills/gridstorm/internal/sheet/graph"
	"github.com/dshills/gridstorm/internal/sheet/history"
)

// Engine is the spreadsheet facade. All methods are safe for concurrent
// use; a single mutex serializes every operation.
type Engine struct {
	mu    sync.Mutex
	grid  *sheet.Grid
	graph *graph.Engine
	hist  *history.History
	clip  clipboard
}

// New creates an engine with an all-zero grid.
func New(opts Options) (*Engine, error) {
	opts.normalize()
	grid, err := sheet.NewGrid(opts.Rows, opts.Cols)
	if err != nil {
		return nil, err
	}
	var gopts []graph.Option
	if opts.Sleep != nil {
		gopts = append(gopts, graph.WithSleep(opts.Sleep))
	}
	return &Engine{
		grid:  grid,
		graph: graph.New(grid, gopts...),
		hist:  history.New(opts.MaxUndo),
	}, nil
}

// Rows returns the grid row count.
func (e *Engine) Rows() int { return e.grid.Rows() }

// Cols returns the grid column count.
func (e *Engine) Cols() int { return e.grid.Cols() }

// Set parses and assigns an expression to the named cell, recording one
// undo level. On parse failure or a rejected cycle nothing changes and
// no history is recorded.
func (e *Engine) Set(ref, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := sheet.ParseRef(ref, e.grid.Rows(), e.grid.Cols())
	if err != nil {
		return fmt.Errorf("%w: %v", formula.ErrParse, err)
	}
	expr, err := formula.Parse(text, e.grid.Rows(), e.grid.Cols())
	if err != nil {
		return err
	}

	prior := e.capture([]sheet.Coord{c})
	if err := e.graph.Assign(c, expr, text); err != nil {
		return err
	}
	e.hist.Record("set "+ref, prior)
	return nil
}

// OpInfo identifies the history entry an undo or redo applied.
type OpInfo struct {
	ID   uuid.UUID
	Name string
}

// Undo reverts the most recent mutation and reports which entry it
// applied.
func (e *Engine) Undo() (OpInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.hist.Undo(historyTarget{e})
	if err != nil {
		return OpInfo{}, err
	}
	return OpInfo{ID: s.ID, Name: s.Name}, nil
}

// Redo re-applies the most recently undone mutation and reports which
// entry it applied.
func (e *Engine) Redo() (OpInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.hist.Redo(historyTarget{e})
	if err != nil {
		return OpInfo{}, err
	}
	return OpInfo{ID: s.ID, Name: s.Name}, nil
}

// CellView is a read-only projection of one cell.
type CellView struct {
	Value   int64
	Err     sheet.CellError
	Formula string
}

// Display returns what the grid shows for the cell: the numeric value,
// or "ERR" when the cell is in an error state.
func (v CellView) Display() string {
	if v.Err != sheet.ErrorNone {
		return "ERR"
	}
	return strconv.FormatInt(v.Value, 10)
}

// View returns the cell at the coordinate. The coordinate must be in
// bounds.
func (e *Engine) View(c sheet.Coord) CellView {
	e.mu.Lock()
	defer e.mu.Unlock()
	cell := e.grid.Cell(c)
	return CellView{Value: cell.Value, Err: cell.Err, Formula: cell.Formula}
}

// Cell looks up the named cell.
func (e *Engine) Cell(ref string) (CellView, error) {
	c, err := sheet.ParseRef(ref, e.grid.Rows(), e.grid.Cols())
	if err != nil {
		return CellView{}, err
	}
	return e.View(c), nil
}

// ExportValues returns the full grid as rows of values. Errored cells
// export their stored value.
func (e *Engine) ExportValues() [][]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([][]int64, e.grid.Rows())
	for r := range out {
		row := make([]int64, e.grid.Cols())
		for col := range row {
			row[col] = e.grid.Cell(sheet.Coord{Row: r, Col: col}).Value
		}
		out[r] = row
	}
	return out
}

// ImportValues writes a rectangle of literal values anchored at A1,
// replacing formulas in the covered region. The whole import is one
// undo level; an oversized rectangle is rejected without any writes.
func (e *Engine) ImportValues(values [][]int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.writeRect(sheet.Coord{}, values, "load")
}

// writeRect writes literal values anchored at tl as one recorded
// operation. Caller holds the lock.
func (e *Engine) writeRect(tl sheet.Coord, values [][]int64, name string) error {
	if len(values) == 0 {
		return nil
	}
	for i, row := range values {
		if len(row) != len(values[0]) {
			return fmt.Errorf("%w: row %d has %d values, want %d", sheet.ErrInvalidRange, i+1, len(row), len(values[0]))
		}
	}
	br := sheet.Coord{Row: tl.Row + len(values) - 1, Col: tl.Col + len(values[0]) - 1}
	if !e.grid.InBounds(br) {
		return fmt.Errorf("%w: %s does not fit at %s", sheet.ErrInvalidRange, br, tl)
	}

	target := sheet.Range{TL: tl, BR: br}
	coords := target.Coords()
	e.hist.Record(name, e.capture(coords))

	for r, row := range values {
		for col, v := range row {
			e.graph.WriteLiteral(sheet.Coord{Row: tl.Row + r, Col: tl.Col + col}, v, sheet.ErrorNone)
		}
	}
	e.graph.Propagate(coords...)
	return nil
}

// capture reads the current state of the coordinates. Caller holds the
// lock.
func (e *Engine) capture(coords []sheet.Coord) []history.CellState {
	out := make([]history.CellState, len(coords))
	for i, c := range coords {
		cell := e.grid.Cell(c)
		out[i] = history.CellState{
			Coord:   c,
			Value:   cell.Value,
			Err:     cell.Err,
			Formula: cell.Formula,
		}
	}
	return out
}

// historyTarget adapts the engine for the history stacks. Its methods
// run with the engine lock already held.
type historyTarget struct {
	e *Engine
}

func (t historyTarget) CaptureCells(coords []sheet.Coord) []history.CellState {
	return t.e.capture(coords)
}

func (t historyTarget) RestoreCells(states []history.CellState) error {
	roots := make([]sheet.Coord, 0, len(states))
	for _, cs := range states {
		if err := t.e.graph.RestoreCell(cs.Coord, cs.Value, cs.Err, cs.Formula); err != nil {
			return err
		}
		roots = append(roots, cs.Coord)
	}
	t.e.graph.Propagate(roots...)
	return nil
}
