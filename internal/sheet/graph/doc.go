// Package graph maintains the dependency graph between cells and keeps
// derived values consistent after every mutation.
//
// Edges run from parent (a cell read by a formula) to dependent (the cell
// whose formula reads it) and are stored on the cells themselves as
// inverse coordinate sets. The engine guarantees the committed graph is
// always acyclic: an assignment that would close a cycle is rejected
// before any state changes.
//
// Recomputation is dirty-set based. After a mutation the engine collects
// every cell transitively reachable through dependent edges, orders the
// set topologically (parents before dependents, row-major tie-break) and
// evaluates each formula cell once. Evaluation reads committed cell
// state, so any valid topological order produces the same values.
package graph
