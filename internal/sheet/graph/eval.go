package graph

import (
	"math"
	"time"

	"github.com/dshills/gridstorm/internal/sheet"
	"github.com/dshills/gridstorm/internal/sheet/formula"
)

// evalExpr computes the value of one expression against committed cell
// state. Errors read from referenced cells win over arithmetic errors
// and are reported in reading order.
func (e *Engine) evalExpr(expr formula.Expr) (int64, sheet.CellError) {
	switch x := expr.(type) {
	case formula.Literal:
		return x.Value, sheet.ErrorNone
	case formula.Ref:
		return e.readCell(x.Cell)
	case formula.Binary:
		return e.evalBinary(x)
	case formula.RangeFunc:
		return e.evalRange(x)
	case formula.Sleep:
		return e.evalSleep(x)
	default:
		return 0, sheet.ErrorParse
	}
}

func (e *Engine) readCell(c sheet.Coord) (int64, sheet.CellError) {
	cell := e.grid.Cell(c)
	if cell.Err != sheet.ErrorNone {
		return 0, cell.Err
	}
	return cell.Value, sheet.ErrorNone
}

func (e *Engine) readOperand(op formula.Operand) (int64, sheet.CellError) {
	if op.IsRef {
		return e.readCell(op.Ref)
	}
	return op.Value, sheet.ErrorNone
}

func (e *Engine) evalBinary(b formula.Binary) (int64, sheet.CellError) {
	l, err := e.readOperand(b.Left)
	if err != sheet.ErrorNone {
		return 0, err
	}
	r, err := e.readOperand(b.Right)
	if err != sheet.ErrorNone {
		return 0, err
	}

	switch b.Op {
	case formula.OpAdd:
		return l + r, sheet.ErrorNone
	case formula.OpSub:
		return l - r, sheet.ErrorNone
	case formula.OpMul:
		p, ok := mulInt64(l, r)
		if !ok {
			return 0, sheet.ErrorOverflow
		}
		return p, sheet.ErrorNone
	case formula.OpDiv:
		if r == 0 {
			return 0, sheet.ErrorDivideByZero
		}
		if l == math.MinInt64 && r == -1 {
			return 0, sheet.ErrorOverflow
		}
		return l / r, sheet.ErrorNone
	default:
		return 0, sheet.ErrorParse
	}
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}
	return p, true
}

func (e *Engine) evalRange(rf formula.RangeFunc) (int64, sheet.CellError) {
	coords := rf.Range.Coords()
	vals := make([]int64, 0, len(coords))
	for _, c := range coords {
		v, err := e.readCell(c)
		if err != sheet.ErrorNone {
			return 0, err
		}
		vals = append(vals, v)
	}

	n := int64(len(vals))
	switch rf.Func {
	case formula.FuncMin:
		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}
		return min, sheet.ErrorNone
	case formula.FuncMax:
		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}
		return max, sheet.ErrorNone
	case formula.FuncSum:
		var sum int64
		for _, v := range vals {
			sum += v
		}
		return sum, sheet.ErrorNone
	case formula.FuncAvg:
		var sum int64
		for _, v := range vals {
			sum += v
		}
		return sum / n, sheet.ErrorNone
	case formula.FuncStdev:
		var sum int64
		for _, v := range vals {
			sum += v
		}
		// Population standard deviation around the truncated integer
		// mean, rounded to the nearest integer.
		mean := sum / n
		var ss float64
		for _, v := range vals {
			d := float64(v - mean)
			ss += d * d
		}
		return int64(math.Round(math.Sqrt(ss / float64(n)))), sheet.ErrorNone
	default:
		return 0, sheet.ErrorParse
	}
}

func (e *Engine) evalSleep(s formula.Sleep) (int64, sheet.CellError) {
	v, err := e.readOperand(s.Arg)
	if err != sheet.ErrorNone {
		return 0, err
	}
	if v > 0 {
		e.sleep(time.Duration(v) * time.Second)
	}
	return v, sheet.ErrorNone
}
