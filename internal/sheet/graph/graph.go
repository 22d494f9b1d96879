package graph

import (
	"sort"
	"time"

	"github.com/dshills/gridstorm/internal/sheet"
	"github.com/dshills/gridstorm/internal/sheet/formula"
)

// SleepFunc performs the delay for SLEEP formulas. Tests inject a fake
// so evaluation stays instant.
type SleepFunc func(d time.Duration)

// Engine owns the dependency bookkeeping and recomputation for one grid.
// It is not safe for concurrent use; the facade above it serializes
// access.
type Engine struct {
	grid  *sheet.Grid
	exprs map[sheet.Coord]formula.Expr
	sleep SleepFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithSleep replaces the real clock delay used by SLEEP formulas.
func WithSleep(fn SleepFunc) Option {
	return func(e *Engine) { e.sleep = fn }
}

// New creates an engine over the grid. All cells start as literal zeros
// with no edges.
func New(grid *sheet.Grid, opts ...Option) *Engine {
	e := &Engine{
		grid:  grid,
		exprs: make(map[sheet.Coord]formula.Expr),
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grid returns the underlying cell store.
func (e *Engine) Grid() *sheet.Grid { return e.grid }

// Assign installs a parsed expression at the coordinate and recomputes
// everything downstream. text is the formula source retained on the
// cell; it must be the text expr was parsed from.
//
// If the new parent set would make c reachable from itself the
// assignment returns ErrCycle and no state changes: not the cell, not
// the edges, not any dependent.
func (e *Engine) Assign(c sheet.Coord, expr formula.Expr, text string) error {
	if lit, ok := expr.(formula.Literal); ok {
		e.WriteLiteral(c, lit.Value, sheet.ErrorNone)
		e.Propagate(c)
		return nil
	}

	parents := parentSet(expr)
	if e.wouldCycle(c, parents) {
		return ErrCycle
	}

	e.grid.DetachParents(c)
	for p := range parents {
		e.grid.AddEdge(p, c)
	}
	e.grid.Cell(c).Formula = text
	e.exprs[c] = expr
	e.Propagate(c)
	return nil
}

// WriteLiteral turns the cell into a literal with the given value and
// error state, dropping any formula and incoming edges. It does not
// propagate; batch operations write every cell first and issue one
// Propagate over all roots.
func (e *Engine) WriteLiteral(c sheet.Coord, v int64, cellErr sheet.CellError) {
	e.grid.DetachParents(c)
	delete(e.exprs, c)
	cell := e.grid.Cell(c)
	cell.Formula = ""
	cell.Value = v
	cell.Err = cellErr
}

// SetLiteral is WriteLiteral followed by propagation from the cell.
func (e *Engine) SetLiteral(c sheet.Coord, v int64) {
	e.WriteLiteral(c, v, sheet.ErrorNone)
	e.Propagate(c)
}

// RestoreCell reinstates a previously captured cell state: value, error
// and formula text. Incoming edges and the parsed expression are rebuilt
// from the formula. It does not propagate; the caller restores every
// cell of a snapshot first and propagates once from all of them.
func (e *Engine) RestoreCell(c sheet.Coord, v int64, cellErr sheet.CellError, formulaText string) error {
	e.grid.DetachParents(c)
	delete(e.exprs, c)

	cell := e.grid.Cell(c)
	cell.Value = v
	cell.Err = cellErr
	cell.Formula = formulaText

	if formulaText == "" {
		return nil
	}
	expr, err := formula.Parse(formulaText, e.grid.Rows(), e.grid.Cols())
	if err != nil {
		return err
	}
	e.exprs[c] = expr
	for p := range parentSet(expr) {
		e.grid.AddEdge(p, c)
	}
	return nil
}

// wouldCycle reports whether assigning the parent set to c closes a
// cycle: some new parent is c itself or is reachable from c through
// dependent edges. The walk is read-only.
func (e *Engine) wouldCycle(c sheet.Coord, parents map[sheet.Coord]struct{}) bool {
	if _, ok := parents[c]; ok {
		return true
	}
	visited := map[sheet.Coord]struct{}{c: {}}
	stack := []sheet.Coord{c}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for d := range e.grid.Cell(cur).Dependents {
			if _, ok := parents[d]; ok {
				return true
			}
			if _, ok := visited[d]; ok {
				continue
			}
			visited[d] = struct{}{}
			stack = append(stack, d)
		}
	}
	return false
}

// Propagate recomputes every cell downstream of the roots, each exactly
// once, parents before dependents. Ties between ready cells break
// row-major so recomputation order is deterministic.
func (e *Engine) Propagate(roots ...sheet.Coord) {
	dirty := make(map[sheet.Coord]struct{})
	stack := append([]sheet.Coord(nil), roots...)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := dirty[c]; ok {
			continue
		}
		dirty[c] = struct{}{}
		for d := range e.grid.Cell(c).Dependents {
			stack = append(stack, d)
		}
	}

	// In-degree counts only edges inside the dirty set; clean parents
	// already hold their final values.
	indeg := make(map[sheet.Coord]int, len(dirty))
	for c := range dirty {
		for p := range e.grid.Cell(c).Parents {
			if _, ok := dirty[p]; ok {
				indeg[c]++
			}
		}
	}

	var ready []sheet.Coord
	for c := range dirty {
		if indeg[c] == 0 {
			ready = append(ready, c)
		}
	}
	sheet.SortCoords(ready)

	for len(ready) > 0 {
		c := ready[0]
		ready = ready[1:]

		if expr, ok := e.exprs[c]; ok {
			cell := e.grid.Cell(c)
			cell.Value, cell.Err = e.evalExpr(expr)
		}

		for _, d := range e.grid.Cell(c).DependentList() {
			if _, ok := dirty[d]; !ok {
				continue
			}
			indeg[d]--
			if indeg[d] == 0 {
				ready = insertSorted(ready, d)
			}
		}
	}
}

func insertSorted(coords []sheet.Coord, c sheet.Coord) []sheet.Coord {
	i := sort.Search(len(coords), func(i int) bool { return c.Less(coords[i]) })
	coords = append(coords, sheet.Coord{})
	copy(coords[i+1:], coords[i:])
	coords[i] = c
	return coords
}

func parentSet(expr formula.Expr) map[sheet.Coord]struct{} {
	refs := expr.Refs()
	set := make(map[sheet.Coord]struct{}, len(refs))
	for _, r := range refs {
		set[r] = struct{}{}
	}
	return set
}
