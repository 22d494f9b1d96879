package sheet

// CellError is the error state carried by a cell. A cell's value is only
// meaningful for display and computation when the error is ErrorNone; any
// formula reading an errored cell propagates the error instead of the
// numeric value.
type CellError uint8

const (
	ErrorNone CellError = iota
	// ErrorDivideByZero is produced by a zero divisor and spreads to
	// dependents like a value.
	ErrorDivideByZero
	// ErrorInvalidRef marks a reference outside the grid.
	ErrorInvalidRef
	// ErrorCircular is reported for a rejected cyclic assignment. It is
	// never part of committed cell state.
	ErrorCircular
	// ErrorParse is reported for malformed formula text. It is never part
	// of committed cell state.
	ErrorParse
	// ErrorOverflow is produced when a multiplication exceeds the value
	// range and spreads to dependents like a value.
	ErrorOverflow
)

// String returns a short display code for the error.
func (e CellError) String() string {
	switch e {
	case ErrorNone:
		return ""
	case ErrorDivideByZero:
		return "DIV/0"
	case ErrorInvalidRef:
		return "REF"
	case ErrorCircular:
		return "CYCLE"
	case ErrorParse:
		return "PARSE"
	case ErrorOverflow:
		return "OVERFLOW"
	default:
		return "ERR"
	}
}

// Cell is one grid slot. A literal cell has empty Formula and no parents;
// a formula cell retains its formula text and the set of coordinates it
// reads (parents). Dependents is the exact inverse edge set: every cell
// whose formula reads this one.
type Cell struct {
	Value   int64
	Err     CellError
	Formula string

	Parents    map[Coord]struct{}
	Dependents map[Coord]struct{}
}

// IsLiteral reports whether the cell holds a directly-set value rather
// than a formula.
func (c *Cell) IsLiteral() bool {
	return c.Formula == ""
}

// ParentList returns the parent set in row-major order.
func (c *Cell) ParentList() []Coord {
	return SortedCoords(c.Parents)
}

// DependentList returns the dependent set in row-major order.
func (c *Cell) DependentList() []Coord {
	return SortedCoords(c.Dependents)
}
