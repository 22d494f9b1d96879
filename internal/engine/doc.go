// Package engine is the facade over the cell store, formula parser,
// dependency graph and history. It owns the single lock serializing all
// spreadsheet access and exposes the operations the command layer and
// UI are written against: cell assignment, clipboard ranges, autofill,
// sorting and undo/redo.
package engine
