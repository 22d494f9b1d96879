package engine

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/sheet"
)

// clipboard is the single values-only copy buffer. Formulas are never
// copied; the buffer captures the rectangle's computed values at copy
// time and pasting writes them as literals.
type clipboard struct {
	values [][]int64
	loaded bool
}

func (cb *clipboard) store(values [][]int64) {
	cb.values = values
	cb.loaded = true
}

// Copy captures the rectangle's values into the buffer. The grid is not
// modified and no undo level is recorded.
func (e *Engine) Copy(r sheet.Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRange(r); err != nil {
		return err
	}
	e.clip.store(e.readRect(r))
	return nil
}

// Cut captures the rectangle's values and resets every cell in it to
// literal zero, as one undo level.
func (e *Engine) Cut(r sheet.Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRange(r); err != nil {
		return err
	}
	e.clip.store(e.readRect(r))

	coords := r.Coords()
	e.hist.Record("cut "+r.String(), e.capture(coords))
	for _, c := range coords {
		e.graph.WriteLiteral(c, 0, sheet.ErrorNone)
	}
	e.graph.Propagate(coords...)
	return nil
}

// Paste writes the buffer as literals anchored at tl, as one undo
// level. A buffer that does not fit inside the grid is rejected before
// any cell changes; pasting before any copy or cut returns
// ErrEmptyBuffer.
func (e *Engine) Paste(tl sheet.Coord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.clip.loaded {
		return ErrEmptyBuffer
	}
	if !e.grid.InBounds(tl) {
		return fmt.Errorf("%w: %s out of bounds", sheet.ErrInvalidRange, tl)
	}
	return e.writeRect(tl, e.clip.values, "paste "+tl.String())
}

func (e *Engine) checkRange(r sheet.Range) error {
	if !r.Valid() || !e.grid.InBounds(r.TL) || !e.grid.InBounds(r.BR) {
		return fmt.Errorf("%w: %s", sheet.ErrInvalidRange, r)
	}
	return nil
}

// readRect returns the rectangle's values row by row. Caller holds the
// lock.
func (e *Engine) readRect(r sheet.Range) [][]int64 {
	out := make([][]int64, r.Rows())
	for i := range out {
		row := make([]int64, r.Cols())
		for j := range row {
			row[j] = e.grid.Cell(sheet.Coord{Row: r.TL.Row + i, Col: r.TL.Col + j}).Value
		}
		out[i] = row
	}
	return out
}
