package engine

import (
	"errors"
	"strconv"
	"testing"

	"github.com/dshills/gridstorm/internal/sheet"
)

func rng(t *testing.T, e *Engine, s string) sheet.Range {
	t.Helper()
	r, err := sheet.ParseRange(s, e.Rows(), e.Cols())
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", s, err)
	}
	return r
}

func coord(t *testing.T, e *Engine, s string) sheet.Coord {
	t.Helper()
	c, err := sheet.ParseRef(s, e.Rows(), e.Cols())
	if err != nil {
		t.Fatalf("ParseRef(%q): %v", s, err)
	}
	return c
}

func TestCopyPaste(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "10")

	if err := e.Copy(rng(t, e, "A1:A2")); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if err := e.Paste(coord(t, e, "B1")); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := val(t, e, "B1"); got != 5 {
		t.Errorf("B1 = %d, want 5", got)
	}
	if got := val(t, e, "B2"); got != 10 {
		t.Errorf("B2 = %d, want 10", got)
	}
	// Source untouched.
	if got := val(t, e, "A1"); got != 5 {
		t.Errorf("A1 = %d, want 5", got)
	}
}

func TestPasteBeforeCopy(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Paste(coord(t, e, "A1")); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("Paste = %v, want ErrEmptyBuffer", err)
	}
}

func TestCopyCapturesValuesNotFormulas(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1+1")

	if err := e.Copy(rng(t, e, "A2:A2")); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if err := e.Paste(coord(t, e, "C5")); err != nil {
		t.Fatalf("Paste: %v", err)
	}

	if got := view(t, e, "C5"); got.Value != 6 || got.Formula != "" {
		t.Errorf("C5 = %+v, want literal 6", got)
	}
	// The pasted literal is detached from A1.
	mustSet(t, e, "A1", "100")
	if got := val(t, e, "C5"); got != 6 {
		t.Errorf("C5 = %d, want 6", got)
	}
}

func TestPasteStaleBuffer(t *testing.T) {
	// The buffer holds copy-time values; later edits don't change it.
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	if err := e.Copy(rng(t, e, "A1:A1")); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	mustSet(t, e, "A1", "50")
	if err := e.Paste(coord(t, e, "B1")); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := val(t, e, "B1"); got != 5 {
		t.Errorf("B1 = %d, want 5", got)
	}
}

func TestPasteOutOfBoundsRejectedEntirely(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1")
	mustSet(t, e, "A2", "2")
	mustSet(t, e, "J9", "77")

	if err := e.Copy(rng(t, e, "A1:A2")); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	// A 2-row buffer pasted at the last row would spill past the edge.
	if err := e.Paste(coord(t, e, "J10")); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Fatalf("Paste = %v, want ErrInvalidRange", err)
	}
	if got := val(t, e, "J9"); got != 77 {
		t.Errorf("J9 = %d, want 77: rejected paste must write nothing", got)
	}
	if got := val(t, e, "J10"); got != 0 {
		t.Errorf("J10 = %d, want 0", got)
	}
}

func TestCutClearsAndFillsBuffer(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1+1")
	mustSet(t, e, "B1", "A1*10")

	if err := e.Cut(rng(t, e, "A1:A2")); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if got := val(t, e, "A1"); got != 0 {
		t.Errorf("A1 = %d, want 0", got)
	}
	if got := view(t, e, "A2"); got.Value != 0 || got.Formula != "" {
		t.Errorf("A2 = %+v, want literal 0", got)
	}
	// Dependents outside the range recompute against the zeros.
	if got := val(t, e, "B1"); got != 0 {
		t.Errorf("B1 = %d, want 0", got)
	}

	if err := e.Paste(coord(t, e, "C1")); err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if got := val(t, e, "C1"); got != 5 {
		t.Errorf("C1 = %d, want 5", got)
	}
	if got := val(t, e, "C2"); got != 6 {
		t.Errorf("C2 = %d, want 6", got)
	}
}

func TestCutUndo(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "A1+1")

	if err := e.Cut(rng(t, e, "A1:A2")); err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "A1"); got != 5 {
		t.Errorf("A1 = %d, want 5", got)
	}
	if got := view(t, e, "A2"); got.Value != 6 || got.Formula != "A1+1" {
		t.Errorf("A2 = %+v, want formula A1+1 = 6", got)
	}
}

func TestAutofillArithmetic(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1")
	mustSet(t, e, "A2", "2")
	mustSet(t, e, "A3", "3")

	if err := e.Autofill(rng(t, e, "A1:A3"), coord(t, e, "A6")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	for i, want := range []int64{4, 5, 6} {
		ref := []string{"A4", "A5", "A6"}[i]
		if got := val(t, e, ref); got != want {
			t.Errorf("%s = %d, want %d", ref, got, want)
		}
	}
}

func TestAutofillConstant(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "B2", "7")
	if err := e.Autofill(rng(t, e, "B2:B2"), coord(t, e, "B5")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	for _, ref := range []string{"B3", "B4", "B5"} {
		if got := val(t, e, ref); got != 7 {
			t.Errorf("%s = %d, want 7", ref, got)
		}
	}
}

func TestAutofillGeometric(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "2")
	mustSet(t, e, "A2", "4")
	mustSet(t, e, "A3", "8")
	if err := e.Autofill(rng(t, e, "A1:A3"), coord(t, e, "A5")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	if got := val(t, e, "A4"); got != 16 {
		t.Errorf("A4 = %d, want 16", got)
	}
	if got := val(t, e, "A5"); got != 32 {
		t.Errorf("A5 = %d, want 32", got)
	}
}

func TestAutofillRepeatFallback(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1")
	mustSet(t, e, "A2", "4")
	mustSet(t, e, "A3", "9")
	if err := e.Autofill(rng(t, e, "A1:A3"), coord(t, e, "A5")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	if got := val(t, e, "A4"); got != 9 {
		t.Errorf("A4 = %d, want 9", got)
	}
	if got := val(t, e, "A5"); got != 9 {
		t.Errorf("A5 = %d, want 9", got)
	}
}

func TestAutofillUpward(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A3", "10")
	mustSet(t, e, "A4", "20")
	mustSet(t, e, "A5", "30")
	if err := e.Autofill(rng(t, e, "A3:A5"), coord(t, e, "A1")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	if got := val(t, e, "A2"); got != 0 {
		t.Errorf("A2 = %d, want 0", got)
	}
	if got := val(t, e, "A1"); got != -10 {
		t.Errorf("A1 = %d, want -10", got)
	}
}

func TestAutofillRejectsBadShapes(t *testing.T) {
	e := newTestEngine(t)
	// Multi-column source.
	if err := e.Autofill(rng(t, e, "A1:B3"), coord(t, e, "A6")); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Errorf("multi-column source = %v, want ErrInvalidRange", err)
	}
	// Extent in a different column.
	if err := e.Autofill(rng(t, e, "A1:A3"), coord(t, e, "B6")); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Errorf("wrong-column extent = %v, want ErrInvalidRange", err)
	}
	// Extent inside the source.
	if err := e.Autofill(rng(t, e, "A1:A3"), coord(t, e, "A2")); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Errorf("contained extent = %v, want ErrInvalidRange", err)
	}
}

func TestAutofillUndo(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1")
	mustSet(t, e, "A2", "2")
	mustSet(t, e, "A4", "99")

	if err := e.Autofill(rng(t, e, "A1:A2"), coord(t, e, "A5")); err != nil {
		t.Fatalf("Autofill: %v", err)
	}
	if got := val(t, e, "A4"); got != 4 {
		t.Fatalf("A4 = %d, want 4", got)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "A4"); got != 99 {
		t.Errorf("A4 after undo = %d, want 99", got)
	}
}

func TestSortAscendingMovesWholeRows(t *testing.T) {
	e := newTestEngine(t)
	// Key column A with companion data in B.
	for i, kv := range []struct{ a, b int64 }{{3, 30}, {1, 10}, {2, 20}} {
		row := []string{"1", "2", "3"}[i]
		mustSet(t, e, "A"+row, itoa(kv.a))
		mustSet(t, e, "B"+row, itoa(kv.b))
	}

	if err := e.Sort(rng(t, e, "A1:A3"), false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	wantA := []int64{1, 2, 3}
	wantB := []int64{10, 20, 30}
	for i := 0; i < 3; i++ {
		row := []string{"1", "2", "3"}[i]
		if got := val(t, e, "A"+row); got != wantA[i] {
			t.Errorf("A%s = %d, want %d", row, got, wantA[i])
		}
		if got := val(t, e, "B"+row); got != wantB[i] {
			t.Errorf("B%s = %d, want %d", row, got, wantB[i])
		}
	}
}

func TestSortDescending(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "1")
	mustSet(t, e, "A2", "3")
	mustSet(t, e, "A3", "2")

	if err := e.Sort(rng(t, e, "A1:A3"), true); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	for i, want := range []int64{3, 2, 1} {
		ref := []string{"A1", "A2", "A3"}[i]
		if got := val(t, e, ref); got != want {
			t.Errorf("%s = %d, want %d", ref, got, want)
		}
	}
}

func TestSortDiscardsFormulasInRows(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "5")
	mustSet(t, e, "A2", "1")
	mustSet(t, e, "B1", "A1*2")

	if err := e.Sort(rng(t, e, "A1:A2"), false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	// Row 1 (key 5) moved to row 2; its formula cell froze at value 10.
	if got := view(t, e, "B2"); got.Value != 10 || got.Formula != "" {
		t.Errorf("B2 = %+v, want literal 10", got)
	}
}

func TestSortRecomputesOutsideDependents(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "3")
	mustSet(t, e, "A2", "1")
	mustSet(t, e, "C5", "A1*10")

	if err := e.Sort(rng(t, e, "A1:A2"), false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if got := val(t, e, "C5"); got != 10 {
		t.Errorf("C5 = %d, want 10", got)
	}
}

func TestSortUndo(t *testing.T) {
	e := newTestEngine(t)
	mustSet(t, e, "A1", "2")
	mustSet(t, e, "A2", "1")
	mustSet(t, e, "B1", "A1+100")

	if err := e.Sort(rng(t, e, "A1:A2"), false); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if _, err := e.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := val(t, e, "A1"); got != 2 {
		t.Errorf("A1 = %d, want 2", got)
	}
	if got := view(t, e, "B1"); got.Formula != "A1+100" || got.Value != 102 {
		t.Errorf("B1 = %+v, want formula A1+100 = 102", got)
	}
}

func TestSortRejectsMultiColumnKey(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Sort(rng(t, e, "A1:B3"), false); !errors.Is(err, sheet.ErrInvalidRange) {
		t.Errorf("Sort = %v, want ErrInvalidRange", err)
	}
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
