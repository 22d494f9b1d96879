// Package formula parses spreadsheet formula text into expression trees.
//
// The grammar is intentionally small: integer literals, single cell
// references, one binary arithmetic operation between two operands, the
// rectangular range functions MIN/MAX/AVG/SUM/STDEV, and SLEEP. Parsing
// is a pure function of the input text and the grid dimensions; it never
// touches cell state.
package formula

import "github.com/dshills/gridstorm/internal/sheet"

// Op is a binary arithmetic operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
)

// String returns the operator symbol.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// FuncKind identifies a range aggregation function.
type FuncKind uint8

const (
	FuncMin FuncKind = iota
	FuncMax
	FuncAvg
	FuncSum
	FuncStdev
)

// String returns the function name as written in formulas.
func (f FuncKind) String() string {
	switch f {
	case FuncMin:
		return "MIN"
	case FuncMax:
		return "MAX"
	case FuncAvg:
		return "AVG"
	case FuncSum:
		return "SUM"
	case FuncStdev:
		return "STDEV"
	default:
		return "?"
	}
}

// Operand is either an integer literal or a cell reference.
type Operand struct {
	IsRef bool
	Ref   sheet.Coord
	Value int64
}

// LiteralOperand builds a literal operand.
func LiteralOperand(v int64) Operand {
	return Operand{Value: v}
}

// RefOperand builds a cell-reference operand.
func RefOperand(c sheet.Coord) Operand {
	return Operand{IsRef: true, Ref: c}
}

// Expr is a parsed formula expression. Refs returns every cell
// coordinate the expression reads, with range functions expanded to all
// cells in their rectangle; the result is the parent set implied by the
// formula.
type Expr interface {
	Refs() []sheet.Coord
}

// Literal is a plain integer. Assigning a Literal makes the target a
// literal cell, not a formula cell.
type Literal struct {
	Value int64
}

// Refs returns nil; a literal reads no cells.
func (Literal) Refs() []sheet.Coord { return nil }

// Ref is a bare cell reference: the identity formula.
type Ref struct {
	Cell sheet.Coord
}

// Refs returns the single referenced cell.
func (r Ref) Refs() []sheet.Coord { return []sheet.Coord{r.Cell} }

// Binary is one arithmetic operation between two operands.
type Binary struct {
	Op    Op
	Left  Operand
	Right Operand
}

// Refs returns the cell operands, left before right.
func (b Binary) Refs() []sheet.Coord {
	var out []sheet.Coord
	if b.Left.IsRef {
		out = append(out, b.Left.Ref)
	}
	if b.Right.IsRef {
		out = append(out, b.Right.Ref)
	}
	return out
}

// RangeFunc aggregates over a rectangle of cells.
type RangeFunc struct {
	Func  FuncKind
	Range sheet.Range
}

// Refs expands the rectangle to every contained coordinate.
func (r RangeFunc) Refs() []sheet.Coord { return r.Range.Coords() }

// Sleep delays evaluation by its argument's value in seconds, then
// yields that value. The delay is a display-side effect only.
type Sleep struct {
	Arg Operand
}

// Refs returns the argument cell, if any.
func (s Sleep) Refs() []sheet.Coord {
	if s.Arg.IsRef {
		return []sheet.Coord{s.Arg.Ref}
	}
	return nil
}
