package bloomannot

import (
	"github.com/katalvlaran/kmerannot/alphabet"
	"github.com/katalvlaran/kmerannot/annotation"
	"github.com/katalvlaran/kmerannot/dbg"
)

// defaultPathCutoff bounds the unitig walk when the caller passes a
// non-positive cutoff, so a pathological all-unitig graph cannot spin
// GetAnnotationCorrected indefinitely.
const defaultPathCutoff = 1 << 16

// Annotator pairs a BloomAnnotation with its DBG to apply topology-aware
// correction, walking unitigs to fold away false positives that the raw
// per-edge test alone cannot reject.
type Annotator struct {
	graph dbg.DBG
	annot *Annotation
}

// NewAnnotator pairs a DBG with the BloomAnnotation built over it.
func NewAnnotator(graph dbg.DBG, annot *Annotation) (*Annotator, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}
	if annot == nil {
		return nil, ErrNilAnnotation
	}

	return &Annotator{graph: graph, annot: annot}, nil
}

// GetAnnotationCorrected returns e's corrected annotation: starting
// from the raw vector, walk forward while e's destination
// node has a single outgoing edge and that successor's source has a
// single incoming edge (the unitig-interior condition), AND-folding in
// each successor's raw annotation and stopping early once the running
// vector goes all-zero or a dummy edge is reached. If bothDirections,
// the same walk runs backward from e. pathCutoff bounds the number of
// steps per direction; a non-positive value falls back to
// defaultPathCutoff.
func (a *Annotator) GetAnnotationCorrected(e dbg.EdgeID, bothDirections bool, pathCutoff int) ([]bool, error) {
	if pathCutoff <= 0 {
		pathCutoff = defaultPathCutoff
	}

	acc, err := a.annot.GetAnnotation(e)
	if err != nil {
		return nil, err
	}

	acc, err = a.walk(e, acc, pathCutoff, forward)
	if err != nil {
		return nil, err
	}
	if bothDirections && anySet(acc) {
		acc, err = a.walk(e, acc, pathCutoff, backward)
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

type direction int

const (
	forward direction = iota
	backward
)

// walk advances from start in dir, AND-folding each neighbour's raw
// annotation into acc, until the unitig-interior condition fails, acc
// goes all-zero, a dummy edge is reached, or pathCutoff steps elapse.
func (a *Annotator) walk(start dbg.EdgeID, acc []bool, pathCutoff int, dir direction) ([]bool, error) {
	current := start
	for step := 0; step < pathCutoff && anySet(acc); step++ {
		var neighbour dbg.EdgeID
		var ok bool
		var err error

		switch dir {
		case forward:
			if !a.graph.HasOnlyOutgoing(current) {
				return acc, nil
			}
			neighbour, ok, err = a.uniqueSuccessor(current)
		case backward:
			if !a.graph.HasOnlyIncoming(current) {
				return acc, nil
			}
			neighbour, err = a.graph.PrevEdge(current)
			ok = err == nil
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			return acc, nil
		}
		if a.graph.IsDummyEdge(neighbour) {
			return acc, nil
		}

		switch dir {
		case forward:
			if !a.graph.HasOnlyIncoming(neighbour) {
				return acc, nil
			}
		case backward:
			if !a.graph.HasOnlyOutgoing(neighbour) {
				return acc, nil
			}
		}

		next, err := a.annot.GetAnnotation(neighbour)
		if err != nil {
			return nil, err
		}
		acc = andFold(acc, next)
		current = neighbour
	}

	return acc, nil
}

// uniqueSuccessor scans alphabet.Order for current's single outgoing
// edge, since NextEdge requires an explicit label and has no
// "find whichever one exists" mode of its own.
func (a *Annotator) uniqueSuccessor(current dbg.EdgeID) (dbg.EdgeID, bool, error) {
	for i := 0; i < len(alphabet.Order); i++ {
		if n, err := a.graph.NextEdge(current, alphabet.Order[i]); err == nil {
			return n, true, nil
		}
	}

	return 0, false, nil
}

func andFold(acc, next []bool) []bool {
	out := make([]bool, len(acc))
	for i := range acc {
		v := acc[i]
		if i < len(next) {
			v = v && next[i]
		} else {
			v = false
		}
		out[i] = v
	}

	return out
}

func anySet(bits []bool) bool {
	for _, b := range bits {
		if b {
			return true
		}
	}

	return false
}

// TestFPAll compares this Annotator's raw, uncorrected annotation
// against an exact annotation.Annotation over every edge and column
// they share. It returns the number of
// discrepancies (columns where the exact annotation says absent but
// the raw Bloom annotation reports present — the only direction a
// Bloom filter can be wrong) and the total number of (edge, column)
// pairs compared.
func (a *Annotator) TestFPAll(exact *annotation.Annotation) (mismatches, compared int, err error) {
	numColumns := a.annot.NumColumns()
	if exact.NumColumns() < numColumns {
		numColumns = exact.NumColumns()
	}
	if a.graph.NumEdges() == 0 {
		return 0, 0, nil
	}

	for e := a.graph.FirstEdge(); e <= a.graph.LastEdge(); e++ {
		raw, err := a.annot.GetAnnotation(e)
		if err != nil {
			return 0, 0, err
		}
		for c := 0; c < numColumns; c++ {
			exactMember, err := exact.Contains(c, e)
			if err != nil {
				return 0, 0, err
			}
			compared++
			if !exactMember && raw[c] {
				mismatches++
			}
		}
	}

	return mismatches, compared, nil
}
