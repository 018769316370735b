// Package dbg defines the de Bruijn graph capability abstraction and
// its reference hash-table-backed implementation, HashDBG.
//
// The capability set is expressed as an interface rather than a class
// hierarchy: annotators depend on DBG, never on *HashDBG, so a future
// succinct back-end can be substituted without touching annotation or
// bloomannot.
package dbg

import "errors"

// Sentinel errors for dbg package operations.
var (
	// ErrUnknownKmer indicates a query or insertion referenced a
	// (k+1)-mer absent from the graph.
	ErrUnknownKmer = errors.New("dbg: unknown kmer")

	// ErrOutOfRange indicates an edge index outside [0, NumEdges()).
	ErrOutOfRange = errors.New("dbg: edge index out of range")

	// ErrPreconditionViolated indicates a traversal was attempted on
	// an edge with no matching neighbour.
	ErrPreconditionViolated = errors.New("dbg: precondition violated: no such neighbour")

	// ErrFrozen indicates a mutating call after Freeze.
	ErrFrozen = errors.New("dbg: graph is frozen")

	// ErrWrongK indicates a loaded DBG's k disagrees with the
	// current DBG's k.
	ErrWrongK = errors.New("dbg: k mismatch")
)
