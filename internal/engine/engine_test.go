package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/gridstorm/internal/sheet"
	"github.com/dshills/gridstorm/internal/sheet/formula"
	"github.com/dshills/gridstorm/internal/sheet/graph"
	"github.com/dshills/gridstorm/internal/sheet/history"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{Rows: 10, Cols: 10})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mustSet(t *testing.T, e *Engine, ref, text string) {
	t.Helper()
	if err := e.Set(ref, text); err != nil {
		t.Fatalf("Set(%s=%s): %v", ref, text, err)
	}
}

func val(t *testing.T, e *Engine, ref string) int64 {
	t.Helper()
	v, err := e.Cell(ref)
	if err != nil {
		t.Fatalf("Cell(%s): %v", ref, err)
	}
	if v.Err != sheet.ErrorNone {
		t.Fatalf("cell %s has error %v", ref, v.Err)
	}
	return v.Value
}

func view(t *testing.T, e *Engine, ref string) CellView {
	t.Helper()
	v, err := e.Cell(ref)
	if err != nil {
		t.Fatalf("Cell(%s): %v", ref, err)
	}
	return v
}

func TestSetAndFormula(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "10")
	mustSet(t, e, "A3", "A1+A2")

	if got := val(t, e, "A3"); got != 15 {
		t.Errorf("A3 = %d, want 15", got)
	}
	if got := view(t, e, "A3").Formula; got != "A1+A2" {
		t.Errorf("A3 formula = %q, want A1+A2", got)
	}
	if got := view(t, e, "A3").Display(); got != "15" {
		t.Errorf("A3 display = %q, want 15", got)
	}
}

func TestSetParseErrorLeavesNoTrace(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "7")

	if err := e.Set("A1", "garbage"); !errors.Is(err, formula.ErrParse) {
		t.Fatalf("Set garbage error = %v, want ErrParse", err)
	}
	if err := e.Set("1A", "5"); !errors.Is(err, formula.ErrParse) {
		t.Fatalf("Set bad ref error = %v, want ErrParse", err)
	}
	if got := val(t, e, "A1"); got != 7 {
		t.Errorf("A1 = %d, want 7", got)
	}

	// Failed edits record no history: one undo reverts the original set.
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "A1"); got != 0 {
		t.Errorf("A1 after undo = %d, want 0", got)
	}
	if _, err := e.Undo(); !errors.Is(err, history.ErrNothingToUndo) {
		t.Errorf("second Undo = %v, want ErrNothingToUndo", err)
	}
}

func TestCycleRejectedNoHistory(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1")

	if err := e.Set("A1", "A2+1"); !errors.Is(err, graph.ErrCycle) {
		t.Fatalf("cyclic Set = %v, want ErrCycle", err)
	}
	if got := val(t, e, "A1"); got != 5 {
		t.Errorf("A1 = %d, want 5", got)
	}

	// The rejected edit must not occupy an undo level.
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := view(t, e, "A2").Formula; got != "" {
		t.Errorf("A2 formula after undo = %q, want none", got)
	}
}

func TestUndoRedoSet(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1*2")
	mustSet(t, e, "A1", "8")

	if got := val(t, e, "A2"); got != 16 {
		t.Fatalf("A2 = %d, want 16", got)
	}

	// Undo A1=8: dependents recompute against the restored value.
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "A1"); got != 5 {
		t.Errorf("A1 = %d, want 5", got)
	}
	if got := val(t, e, "A2"); got != 10 {
		t.Errorf("A2 = %d, want 10", got)
	}

	if _, err := e.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := val(t, e, "A2"); got != 16 {
		t.Errorf("A2 after redo = %d, want 16", got)
	}
}

func TestUndoRestoresFormula(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1*2")
	mustSet(t, e, "A2", "99")

	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := view(t, e, "A2").Formula; got != "A1*2" {
		t.Fatalf("A2 formula = %q, want A1*2", got)
	}
	// The restored formula is live again.
	mustSet(t, e, "A1", "6")
	if got := val(t, e, "A2"); got != 12 {
		t.Errorf("A2 = %d, want 12", got)
	}
}

func TestUndoRedoReportEntry(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")

	info, err := e.Undo()
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if info.Name != "set A1" {
		t.Errorf("undo name = %q, want %q", info.Name, "set A1")
	}
	if info.ID == uuid.Nil {
		t.Error("undo ID should be set")
	}

	redone, err := e.Redo()
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if redone.Name != "set A1" {
		t.Errorf("redo name = %q, want %q", redone.Name, "set A1")
	}
	if redone.ID == uuid.Nil {
		t.Error("redo ID should be set")
	}
}

func TestDisplayError(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1/0")
	if got := view(t, e, "A1").Display(); got != "ERR" {
		t.Errorf("Display = %q, want ERR", got)
	}
}

func TestImportExportValues(t *testing.T) {
	e := newTestEngine(t)
	if err := e.ImportValues([][]int64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("ImportValues: %v", err)
	}
	if got := val(t, e, "B2"); got != 4 {
		t.Errorf("B2 = %d, want 4", got)
	}

	out := e.ExportValues()
	if len(out) != 10 || len(out[0]) != 10 {
		t.Fatalf("export dims = %dx%d, want 10x10", len(out), len(out[0]))
	}
	if out[0][1] != 2 || out[1][0] != 3 {
		t.Errorf("export corner = %v %v, want 2 3", out[0][1], out[1][0])
	}

	// Import is one undo level.
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "B2"); got != 0 {
		t.Errorf("B2 after undo = %d, want 0", got)
	}

	// An oversized rectangle is rejected without writes.
	big := make([][]int64, 11)
	for i := range big {
		big[i] = make([]int64, 3)
	}
	if err := e.ImportValues(big); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Errorf("oversized import = %v, want ErrInvalidRange", err)
	}
}

func TestImportRejectsRaggedRectangle(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "B1", "9")

	// The second row is wider than the first; the bounds check must see
	// it before anything is written or recorded.
	ragged := [][]int64{{1}, {2, 3}}
	if err := e.ImportValues(ragged); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Fatalf("ragged import = %v, want ErrInvalidRange", err)
	}
	if got := val(t, e, "A1"); got != 0 {
		t.Errorf("A1 = %d, want 0: rejected import must write nothing", got)
	}
	if got := val(t, e, "B1"); got != 9 {
		t.Errorf("B1 = %d, want 9", got)
	}

	// No undo level for the rejected import: one undo reverts the set.
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "B1"); got != 0 {
		t.Errorf("B1 after undo = %d, want 0", got)
	}
}
