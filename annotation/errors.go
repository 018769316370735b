// Package annotation implements the exact hash annotator: a per-column
// set of edge indices, with dense membership bitsets, permutation
// support for prefix columns, and a binary wire format.
package annotation

import "errors"

// Sentinel errors for annotation package operations.
var (
	// ErrColumnOutOfRange indicates a column id outside [0, NumColumns()).
	ErrColumnOutOfRange = errors.New("annotation: column out of range")

	// ErrEdgeOutOfRange indicates an edge id outside the borrowed
	// DBG's valid range.
	ErrEdgeOutOfRange = errors.New("annotation: edge out of range")

	// ErrNilDBG indicates a nil DBG was passed to New.
	ErrNilDBG = errors.New("annotation: dbg is nil")
)
