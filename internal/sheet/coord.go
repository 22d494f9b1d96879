package sheet

import (
	"fmt"
	"sort"
	"strconv"
)

// Coord identifies a cell by zero-based row and column.
type Coord struct {
	Row int
	Col int
}

// String returns the A1-style reference for the coordinate.
func (c Coord) String() string {
	return ColumnLabel(c.Col) + strconv.Itoa(c.Row+1)
}

// Less orders coordinates row-major.
func (c Coord) Less(o Coord) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// ColumnLabel converts a zero-based column index to its letter header
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnLabel(col int) string {
	n := col + 1
	var buf []byte
	for n > 0 {
		rem := (n - 1) % 26
		buf = append([]byte{byte('A' + rem)}, buf...)
		n = (n - 1) / 26
	}
	return string(buf)
}

// ParseRef parses an A1-style reference ("B12") into a Coord, validating
// it against the given grid dimensions. Column letters must be uppercase
// and the row number is 1-based.
func ParseRef(ref string, rows, cols int) (Coord, error) {
	if ref == "" {
		return Coord{}, fmt.Errorf("%w: empty reference", ErrInvalidRef)
	}

	i := 0
	col := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A') + 1
		i++
	}
	if i == 0 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	if i == len(ref) {
		return Coord{}, fmt.Errorf("%w: %q missing row number", ErrInvalidRef, ref)
	}

	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	c := Coord{Row: row - 1, Col: col - 1}
	if c.Row >= rows || c.Col >= cols {
		return Coord{}, fmt.Errorf("%w: %q outside %dx%d grid", ErrInvalidRef, ref, rows, cols)
	}
	return c, nil
}

// Range is a rectangle of cells described by its top-left and
// bottom-right corners, both inclusive.
type Range struct {
	TL Coord
	BR Coord
}

// String returns the "TL:BR" form of the range.
func (r Range) String() string {
	return r.TL.String() + ":" + r.BR.String()
}

// Valid reports whether the top-left corner is at or above-left of the
// bottom-right corner.
func (r Range) Valid() bool {
	return r.TL.Row <= r.BR.Row && r.TL.Col <= r.BR.Col
}

// SingleColumn reports whether the range spans exactly one column.
func (r Range) SingleColumn() bool {
	return r.Valid() && r.TL.Col == r.BR.Col
}

// Rows returns the number of rows in the range.
func (r Range) Rows() int { return r.BR.Row - r.TL.Row + 1 }

// Cols returns the number of columns in the range.
func (r Range) Cols() int { return r.BR.Col - r.TL.Col + 1 }

// Contains reports whether the coordinate lies inside the rectangle.
func (r Range) Contains(c Coord) bool {
	return c.Row >= r.TL.Row && c.Row <= r.BR.Row &&
		c.Col >= r.TL.Col && c.Col <= r.BR.Col
}

// Coords returns every coordinate in the rectangle in row-major order.
func (r Range) Coords() []Coord {
	out := make([]Coord, 0, r.Rows()*r.Cols())
	for row := r.TL.Row; row <= r.BR.Row; row++ {
		for col := r.TL.Col; col <= r.BR.Col; col++ {
			out = append(out, Coord{Row: row, Col: col})
		}
	}
	return out
}

// ParseRange parses a "TL:BR" range against the given grid dimensions.
func ParseRange(s string, rows, cols int) (Range, error) {
	sep := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return Range{}, fmt.Errorf("%w: %q missing ':'", ErrInvalidRange, s)
	}
	tl, err := ParseRef(s[:sep], rows, cols)
	if err != nil {
		return Range{}, err
	}
	br, err := ParseRef(s[sep+1:], rows, cols)
	if err != nil {
		return Range{}, err
	}
	r := Range{TL: tl, BR: br}
	if !r.Valid() {
		return Range{}, fmt.Errorf("%w: %q top-left must not be below or right of bottom-right", ErrInvalidRange, s)
	}
	return r, nil
}

// SortCoords orders a coordinate slice row-major in place.
func SortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
}

// SortedCoords returns the keys of a coordinate set in row-major order.
// Edge sets are maps, so any traversal that must be deterministic goes
// through this helper.
func SortedCoords(set map[Coord]struct{}) []Coord {
	out := make([]Coord, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}
