package annotation

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/kmerannot/dbg"
)

// Annotation is the exact hash annotator: a set of columns, each a
// dense bitset over the borrowed DBG's edge ids.
//
// Annotation borrows its DBG by reference: the DBG must already be
// frozen and must outlive the Annotation. AddSequence is the only
// mutating operation; once a column's sequences have all been added,
// that column's membership is immutable — Annotation itself does not
// enforce this with a separate freeze call, since nothing in the
// exported API lets a caller retract a previously inserted edge.
type Annotation struct {
	mu       sync.RWMutex
	graph    dbg.DBG
	numEdges int
	columns  []*bitset.BitSet
	prefix   []int // prefix column ids, in the order given to New
}

// New constructs an empty Annotation over the given (already frozen)
// DBG, with prefixColumns naming the columns that compute_permutation_map
// sorts to the front.
func New(graph dbg.DBG, prefixColumns []int) (*Annotation, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}
	prefix := append([]int(nil), prefixColumns...)

	return &Annotation{
		graph:    graph,
		numEdges: graph.NumEdges(),
		prefix:   prefix,
	}, nil
}

// NumColumns returns the number of columns created so far.
func (a *Annotation) NumColumns() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.columns)
}

// AddColumn creates a new, initially empty column and returns its id.
// Column ids are assigned monotonically; removal is not supported.
func (a *Annotation) AddColumn() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := len(a.columns)
	a.columns = append(a.columns, bitset.New(uint(a.numEdges)))

	return id
}

// AddSequence inserts every (k+1)-mer of graph.Transform(seq, rooted)
// into column. The DBG must already contain every such k-mer;
// otherwise AddSequence fails with dbg.ErrUnknownKmer (wrapped).
func (a *Annotation) AddSequence(seq string, column int, rooted bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if column < 0 || column >= len(a.columns) {
		return fmt.Errorf("%w: column %d", ErrColumnOutOfRange, column)
	}

	padded := a.graph.Transform(a.graph.Encode(seq), rooted)
	k := a.graph.K()
	for i := 0; i+k+1 <= len(padded); i++ {
		kmer := padded[i : i+k+1]
		e, err := a.graph.MapKmer(kmer)
		if err != nil {
			return fmt.Errorf("annotation: AddSequence: %w", err)
		}
		a.columns[column].Set(uint(e))
	}

	return nil
}

// Contains reports whether edge e belongs to column.
func (a *Annotation) Contains(column int, e dbg.EdgeID) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if column < 0 || column >= len(a.columns) {
		return false, fmt.Errorf("%w: column %d", ErrColumnOutOfRange, column)
	}
	if int(e) >= a.numEdges {
		return false, fmt.Errorf("%w: edge %d", ErrEdgeOutOfRange, e)
	}

	return a.columns[column].Test(uint(e)), nil
}

// AnnotateEdge returns the column-membership bit vector for e, one
// bool per column. If permute is true, bits are reordered so that
// prefix columns occupy positions [0, len(prefix)), per
// ComputePermutationMap.
func (a *Annotation) AnnotateEdge(e dbg.EdgeID, permute bool) ([]bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(e) >= a.numEdges {
		return nil, fmt.Errorf("%w: edge %d", ErrEdgeOutOfRange, e)
	}

	bits := make([]bool, len(a.columns))
	for c, col := range a.columns {
		bits[c] = col.Test(uint(e))
	}
	if !permute {
		return bits, nil
	}

	mapping := ComputePermutationMap(len(a.columns), a.prefix)
	out := make([]bool, len(bits))
	for c, v := range bits {
		out[mapping[c]] = v
	}

	return out, nil
}

// AnnotateEdgeIndices returns the set of column ids containing e, in
// ascending column order.
func (a *Annotation) AnnotateEdgeIndices(e dbg.EdgeID) ([]int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(e) >= a.numEdges {
		return nil, fmt.Errorf("%w: edge %d", ErrEdgeOutOfRange, e)
	}

	var out []int
	for c, col := range a.columns {
		if col.Test(uint(e)) {
			out = append(out, c)
		}
	}

	return out, nil
}

// ComputePermutationMap returns the dense function {0..numColumns-1}
// -> {0..numColumns-1} that AnnotateEdge(..., permute=true) applies:
// columns named in prefix occupy slots [0, len(prefix)) in ascending
// column-index order, and all remaining columns fill the rest of the
// range, also in ascending column-index order.
func ComputePermutationMap(numColumns int, prefix []int) []int {
	inPrefix := make(map[int]bool, len(prefix))
	for _, p := range prefix {
		inPrefix[p] = true
	}

	// Only distinct prefix ids inside [0, numColumns) take a slot, so
	// the mapping stays a bijection onto {0..numColumns-1}.
	nextOtherSlot := 0
	for c := 0; c < numColumns; c++ {
		if inPrefix[c] {
			nextOtherSlot++
		}
	}

	mapping := make([]int, numColumns)
	nextPrefixSlot := 0
	for c := 0; c < numColumns; c++ {
		if inPrefix[c] {
			mapping[c] = nextPrefixSlot
			nextPrefixSlot++
		} else {
			mapping[c] = nextOtherSlot
			nextOtherSlot++
		}
	}

	return mapping
}
