// Package wavelettrie implements a succinct ordered sequence of
// arbitrary-precision unsigned integers, each
// interpreted as a bitset over annotation columns, with random access
// costing one bitvector.BitVector rank1/rank0 query per level and a
// worker-count hint for parallel construction.
package wavelettrie

import "errors"

// Sentinel errors for wavelettrie package operations.
var (
	// ErrOutOfRange indicates an index outside [0, Size()) was
	// requested from At, or an insert position outside [0, Size()].
	ErrOutOfRange = errors.New("wavelettrie: index out of range")
)
