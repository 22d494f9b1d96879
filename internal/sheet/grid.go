package sheet

import "fmt"

// Grid limits. Columns stop at ZZZ; rows keep labels at three digits.
const (
	MaxRows = 999
	MaxCols = 18278
)

// Grid owns all cells of one spreadsheet. Dimensions are fixed at
// construction; every Coord stored in any parent or dependent set is
// guaranteed in-bounds because edges are only created for validated
// references.
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
}

// NewGrid creates a rows x cols grid of literal zero cells.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || rows > MaxRows || cols < 1 || cols > MaxCols {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, rows, cols)
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Rows returns the row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the column count.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether the coordinate is inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Cell returns the cell record at the coordinate. The coordinate must be
// in bounds; callers validate references before reaching the store.
func (g *Grid) Cell(c Coord) *Cell {
	return &g.cells[c.Row][c.Col]
}

// AddEdge records that child's formula reads parent, maintaining both
// directions of the edge.
func (g *Grid) AddEdge(parent, child Coord) {
	p := g.Cell(parent)
	if p.Dependents == nil {
		p.Dependents = make(map[Coord]struct{})
	}
	p.Dependents[child] = struct{}{}

	ch := g.Cell(child)
	if ch.Parents == nil {
		ch.Parents = make(map[Coord]struct{})
	}
	ch.Parents[parent] = struct{}{}
}

// RemoveEdge deletes the parent -> child dependency in both directions.
func (g *Grid) RemoveEdge(parent, child Coord) {
	delete(g.Cell(parent).Dependents, child)
	delete(g.Cell(child).Parents, parent)
}

// DetachParents removes every incoming edge of the cell, leaving its
// parent set empty. Old parents lose the cell from their dependent sets.
func (g *Grid) DetachParents(c Coord) {
	cell := g.Cell(c)
	for parent := range cell.Parents {
		delete(g.Cell(parent).Dependents, c)
	}
	cell.Parents = nil
}
