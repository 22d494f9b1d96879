package graph

import "errors"

// Graph errors.
var (
	// ErrCycle indicates an assignment that would make a cell reachable
	// from itself. The assignment is rejected with no state change.
	ErrCycle = errors.New("graph: circular dependency")
)
