// Package history provides undo/redo over cell-level snapshots.
//
// Every mutating operation records the prior state of exactly the cells
// it is about to touch. Undo restores those states and captures the
// current ones onto the redo stack, so the two stacks stay mirror
// images; any new edit clears redo.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/sheet"
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 100

// CellState is one cell's complete restorable state. Edges are not
// stored; they are rebuilt from the formula text on restore.
type CellState struct {
	Coord   sheet.Coord
	Value   int64
	Err     sheet.CellError
	Formula string
}

// Snapshot is the pre-state of one operation's affected cells.
type Snapshot struct {
	ID    uuid.UUID
	Name  string
	Time  time.Time
	Cells []CellState
}

// Coords returns the coordinates covered by the snapshot.
func (s *Snapshot) Coords() []sheet.Coord {
	out := make([]sheet.Coord, len(s.Cells))
	for i, cs := range s.Cells {
		out[i] = cs.Coord
	}
	return out
}

// Target is the store snapshots are captured from and restored into.
type Target interface {
	CaptureCells(coords []sheet.Coord) []CellState
	RestoreCells(states []CellState) error
}

// History holds the undo and redo stacks. It is not safe for concurrent
// use; the facade above it serializes access.
type History struct {
	undo []*Snapshot
	redo []*Snapshot
	max  int
}

// New creates a history bounded to maxEntries undo levels. Zero or
// negative means DefaultMaxEntries.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{max: maxEntries}
}

// Record builds a snapshot from the captured cell states and pushes it
// onto the undo stack. Recording a new edit invalidates the redo stack.
func (h *History) Record(name string, cells []CellState) *Snapshot {
	s := &Snapshot{
		ID:    uuid.New(),
		Name:  name,
		Time:  time.Now(),
		Cells: cells,
	}
	h.undo = append(h.undo, s)
	if len(h.undo) > h.max {
		h.undo = h.undo[len(h.undo)-h.max:]
	}
	h.redo = nil
	return s
}

// Undo restores the most recent snapshot into the target. The current
// state of the same cells moves to the redo stack.
func (h *History) Undo(t Target) (*Snapshot, error) {
	if len(h.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	counter := &Snapshot{
		ID:    uuid.New(),
		Name:  s.Name,
		Time:  time.Now(),
		Cells: t.CaptureCells(s.Coords()),
	}
	if err := t.RestoreCells(s.Cells); err != nil {
		h.undo = append(h.undo, s)
		return nil, err
	}
	h.redo = append(h.redo, counter)
	return s, nil
}

// Redo re-applies the most recently undone snapshot. The current state
// of the same cells moves back to the undo stack.
func (h *History) Redo(t Target) (*Snapshot, error) {
	if len(h.redo) == 0 {
		return nil, ErrNothingToRedo
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	counter := &Snapshot{
		ID:    uuid.New(),
		Name:  s.Name,
		Time:  time.Now(),
		Cells: t.CaptureCells(s.Coords()),
	}
	if err := t.RestoreCells(s.Cells); err != nil {
		h.redo = append(h.redo, s)
		return nil, err
	}
	h.undo = append(h.undo, counter)
	return s, nil
}

// CanUndo reports whether an undo level exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo level exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of stored undo levels.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of stored redo levels.
func (h *History) RedoDepth() int { return len(h.redo) }
