package engine

import (
	"fmt"

	"github.com/dshills/gridstorm/internal/sheet"
)

// Autofill extends a single-column source range to the extent cell,
// writing generated literals over everything between the range and the
// extent, as one undo level.
//
// Pattern detection on the source values, in order of preference:
// constant, arithmetic progression, geometric progression (nonzero
// values, exact integer ratio), and finally repetition of the boundary
// value nearest the fill direction. The extent must be in the source
// column, strictly above or below the range; filling works both ways.
func (e *Engine) Autofill(src sheet.Range, extent sheet.Coord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRange(src); err != nil {
		return err
	}
	if !src.SingleColumn() {
		return fmt.Errorf("%w: autofill source %s must be a single column", sheet.ErrInvalidRange, src)
	}
	if !e.grid.InBounds(extent) || extent.Col != src.TL.Col || src.Contains(extent) {
		return fmt.Errorf("%w: autofill extent %s must extend column %s", sheet.ErrInvalidRange, extent, sheet.ColumnLabel(src.TL.Col))
	}

	vals := make([]int64, 0, src.Rows())
	for _, c := range src.Coords() {
		vals = append(vals, e.grid.Cell(c).Value)
	}

	down := extent.Row > src.BR.Row
	var count int
	if down {
		count = extent.Row - src.BR.Row
	} else {
		count = src.TL.Row - extent.Row
	}
	fill := extend(vals, count, down)

	coords := make([]sheet.Coord, count)
	for i := range coords {
		if down {
			coords[i] = sheet.Coord{Row: src.BR.Row + 1 + i, Col: src.TL.Col}
		} else {
			coords[i] = sheet.Coord{Row: src.TL.Row - 1 - i, Col: src.TL.Col}
		}
	}

	e.hist.Record(fmt.Sprintf("autofill %s to %s", src, extent), e.capture(coords))
	for i, c := range coords {
		e.graph.WriteLiteral(c, fill[i], sheet.ErrorNone)
	}
	e.graph.Propagate(coords...)
	return nil
}

// extend generates count values continuing the sequence. The result is
// ordered nearest-first: index 0 is the value adjacent to the source
// range in the fill direction.
func extend(vals []int64, count int, down bool) []int64 {
	out := make([]int64, count)

	if d, ok := commonDiff(vals); ok {
		edge := vals[len(vals)-1]
		step := d
		if !down {
			edge = vals[0]
			step = -d
		}
		for i := range out {
			edge += step
			out[i] = edge
		}
		return out
	}

	if q, ok := commonRatio(vals); ok {
		edge := vals[len(vals)-1]
		if !down {
			edge = vals[0]
		}
		exact := true
		for i := range out {
			if down {
				edge *= q
			} else if edge%q == 0 {
				edge /= q
			} else {
				exact = false
				break
			}
			out[i] = edge
		}
		if exact {
			return out
		}
	}

	// No usable pattern: repeat the boundary value.
	edge := vals[len(vals)-1]
	if !down {
		edge = vals[0]
	}
	for i := range out {
		out[i] = edge
	}
	return out
}

// commonDiff reports the constant difference of the values, if any. A
// single value counts as a constant sequence.
func commonDiff(vals []int64) (int64, bool) {
	if len(vals) == 1 {
		return 0, true
	}
	d := vals[1] - vals[0]
	for i := 2; i < len(vals); i++ {
		if vals[i]-vals[i-1] != d {
			return 0, false
		}
	}
	return d, true
}

// commonRatio reports the constant integer ratio of the values, if any.
// Zeros and inexact divisions disqualify the sequence.
func commonRatio(vals []int64) (int64, bool) {
	if len(vals) < 2 || vals[0] == 0 {
		return 0, false
	}
	if vals[1] == 0 || vals[1]%vals[0] != 0 {
		return 0, false
	}
	q := vals[1] / vals[0]
	for i := 2; i < len(vals); i++ {
		if vals[i-1] == 0 || vals[i] != vals[i-1]*q {
			return 0, false
		}
	}
	return q, true
}
