// Package bloomannot implements the approximate Bloom-filter
// annotator: Annotation holds per-column Bloom filters for raw
// approximate membership, and Annotator layers topology-aware
// correction via unitig walks on top, plus a discrepancy report
// comparing against an exact annotation.
package bloomannot

import "errors"

// Sentinel errors for bloomannot package operations.
var (
	// ErrColumnOutOfRange indicates a column id outside [0, NumColumns()).
	ErrColumnOutOfRange = errors.New("bloomannot: column out of range")

	// ErrNilDBG indicates a nil DBG was passed to a constructor.
	ErrNilDBG = errors.New("bloomannot: dbg is nil")

	// ErrNilAnnotation indicates a nil *Annotation was passed to
	// NewAnnotator.
	ErrNilAnnotation = errors.New("bloomannot: annotation is nil")
)
