package engine

import (
	"fmt"
	"sort"

	"github.com/dshills/gridstorm/internal/sheet"
)

// Sort reorders whole grid rows by the values of a single-column key
// range, as one undo level. The sort is stable: rows with equal keys
// keep their relative order.
//
// Every cell in the affected rows becomes a literal carrying the value
// and error state it had before the sort; formulas in those rows are
// discarded. Cells outside the rows are untouched, and their formulas
// recompute against the moved values.
func (e *Engine) Sort(key sheet.Range, descending bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRange(key); err != nil {
		return err
	}
	if !key.SingleColumn() {
		return fmt.Errorf("%w: sort key %s must be a single column", sheet.ErrInvalidRange, key)
	}

	n := key.Rows()
	keys := make([]int64, n)
	for i := 0; i < n; i++ {
		keys[i] = e.grid.Cell(sheet.Coord{Row: key.TL.Row + i, Col: key.TL.Col}).Value
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		if descending {
			return keys[perm[i]] > keys[perm[j]]
		}
		return keys[perm[i]] < keys[perm[j]]
	})

	cols := e.grid.Cols()
	affected := sheet.Range{
		TL: sheet.Coord{Row: key.TL.Row, Col: 0},
		BR: sheet.Coord{Row: key.BR.Row, Col: cols - 1},
	}
	coords := affected.Coords()

	// Source rows are read in full before any write so the permutation
	// never observes its own output.
	type state struct {
		value int64
		err   sheet.CellError
	}
	rows := make([][]state, n)
	for i := range rows {
		row := make([]state, cols)
		for col := 0; col < cols; col++ {
			cell := e.grid.Cell(sheet.Coord{Row: key.TL.Row + i, Col: col})
			row[col] = state{value: cell.Value, err: cell.Err}
		}
		rows[i] = row
	}

	name := "sorta " + key.String()
	if descending {
		name = "sortd " + key.String()
	}
	e.hist.Record(name, e.capture(coords))

	for i, src := range perm {
		for col, s := range rows[src] {
			e.graph.WriteLiteral(sheet.Coord{Row: key.TL.Row + i, Col: col}, s.value, s.err)
		}
	}
	e.graph.Propagate(coords...)
	return nil
}
