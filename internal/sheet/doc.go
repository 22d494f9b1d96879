// Package sheet provides the cell store for the spreadsheet engine.
//
// A Grid owns a fixed-size rectangle of Cell records. Cells are addressed
// by zero-based (row, column) Coord values; the familiar A1-style notation
// is handled by the reference codec in this package. Dependency edges
// between cells are stored as coordinate sets on each Cell (parents and
// dependents), never as pointers, so the Grid remains the single owner of
// all cell data.
//
// The package holds no evaluation logic. Formula parsing lives in
// sheet/formula and dependency maintenance in sheet/graph.
package sheet
