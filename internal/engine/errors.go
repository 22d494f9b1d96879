package engine

import "errors"

// Engine errors. Parse, range, cycle and history failures surface as the
// sentinel errors of the packages that detect them; only the clipboard
// state is owned here.
var (
	// ErrEmptyBuffer is returned by Paste before any copy or cut.
	ErrEmptyBuffer = errors.New("engine: copy buffer is empty")
)
