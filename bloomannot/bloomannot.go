package bloomannot

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/katalvlaran/kmerannot/bloomfilter"
	"github.com/katalvlaran/kmerannot/dbg"
	"github.com/katalvlaran/kmerannot/serial"
)

// seedStride spaces each column's derived seed far enough from its
// neighbours that hashfam's salting keeps columns independent even
// when baseSeed is zero. It differs from hashfam's own per-member salt
// step, so no member of one column repeats a member of another.
const seedStride = 0xC2B2AE3D27D4EB4F

// Annotation is the approximate Bloom-filter annotator: a set of
// columns, each an independently seeded bloomfilter.Filter over
// (k+1)-mer bytes. Unlike
// annotation.Annotation, membership is approximate: Insert never
// yields a false negative, but GetAnnotation may report a false
// positive for any given column.
//
// Annotation borrows its DBG by reference, identically to
// annotation.Annotation; see that package's ownership note.
type Annotation struct {
	mu         sync.RWMutex
	graph      dbg.DBG
	sizeFactor float64 // bits per expected element (m/n)
	h          int     // hash functions per column
	baseSeed   uint64
	fpp        float64 // target FPP if built via NewFromFPP, else 0
	columns    []*bloomfilter.Filter
	sizesV     []uint64 // expected-insertion count recorded at AddColumn time
}

// NewFromFPP constructs an Annotation whose columns are sized from a
// target false-positive probability p. baseSeed seeds the first
// column; later columns derive independent seeds from it.
func NewFromFPP(graph dbg.DBG, p float64, baseSeed uint64) (*Annotation, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}
	if p <= 0 || p >= 1 {
		p = 0.01
	}
	bitsPerElement := -math.Log2(p) / math.Ln2
	h := int(math.Round(bitsPerElement * math.Ln2))
	if h < 1 {
		h = 1
	}

	return &Annotation{graph: graph, sizeFactor: bitsPerElement, h: h, baseSeed: baseSeed, fpp: p}, nil
}

// NewWithParams constructs an Annotation from explicit m/n and h.
func NewWithParams(graph dbg.DBG, sizeFactor float64, h int, baseSeed uint64) (*Annotation, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}
	if sizeFactor <= 0 {
		sizeFactor = 1
	}
	if h < 1 {
		h = 1
	}

	return &Annotation{graph: graph, sizeFactor: sizeFactor, h: h, baseSeed: baseSeed}, nil
}

// NumColumns returns the number of columns created so far.
func (a *Annotation) NumColumns() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.columns)
}

// AddColumn creates a new column sized for expectedInsertions elements
// at the annotation's configured size factor, and returns its id.
func (a *Annotation) AddColumn(expectedInsertions uint64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if expectedInsertions < 1 {
		expectedInsertions = 1
	}
	m := uint64(math.Ceil(a.sizeFactor * float64(expectedInsertions)))
	if m < 1 {
		m = 1
	}
	seed := a.baseSeed + uint64(len(a.columns))*seedStride
	f := bloomfilter.New(m, a.h, seed)

	id := len(a.columns)
	a.columns = append(a.columns, f)
	a.sizesV = append(a.sizesV, expectedInsertions)

	return id
}

// AddSequence inserts every (k+1)-mer of graph.Transform(seq, false)
// into column. Bloom inserts always operate on the unrooted transform:
// the approximate annotator has no use for rooted mode, since it
// never needs to reject an unmapped k-mer the way the exact annotator
// does.
func (a *Annotation) AddSequence(seq string, column int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if column < 0 || column >= len(a.columns) {
		return fmt.Errorf("%w: column %d", ErrColumnOutOfRange, column)
	}

	padded := a.graph.Transform(a.graph.Encode(seq), false)
	k := a.graph.K()
	for i := 0; i+k+1 <= len(padded); i++ {
		a.columns[column].Insert([]byte(padded[i : i+k+1]))
	}

	return nil
}

// GetAnnotation returns the raw (uncorrected) membership vector for
// edge e: bit c is the Bloom-membership test of e's (k+1)-mer against
// column c, which may be a false positive but never a false negative.
func (a *Annotation) GetAnnotation(e dbg.EdgeID) ([]bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	kmer, err := edgeKmer(a.graph, e)
	if err != nil {
		return nil, err
	}

	bits := make([]bool, len(a.columns))
	for c, f := range a.columns {
		bits[c] = f.Test([]byte(kmer))
	}

	return bits, nil
}

// ApproxFalsePositiveRate returns column's current estimated
// false-positive probability.
func (a *Annotation) ApproxFalsePositiveRate(column int) (float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if column < 0 || column >= len(a.columns) {
		return 0, fmt.Errorf("%w: column %d", ErrColumnOutOfRange, column)
	}

	return a.columns[column].ApproxFalsePositiveRate(), nil
}

// edgeKmer reconstructs e's (k+1)-mer from the graph's node/label
// accessors, since Bloom filters retain no mapping back from edge id
// to key.
func edgeKmer(graph dbg.DBG, e dbg.EdgeID) (string, error) {
	node, err := graph.NodeKmer(e)
	if err != nil {
		return "", err
	}
	label, err := graph.EdgeLabel(e)
	if err != nil {
		return "", err
	}

	return node + string(label), nil
}

// Serialize writes the annotation as: Number num_columns, then per
// column a bloomfilter.Filter (Number m, Number h, Number seed, raw
// bits), followed by the size factor and target FPP as IEEE-754
// doubles and the per-column expected-insertion counts (Number count,
// then Number entries).
func (a *Annotation) Serialize(w io.Writer) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := serial.WriteNumber(w, uint64(len(a.columns))); err != nil {
		return err
	}
	for _, f := range a.columns {
		if err := f.Serialize(w); err != nil {
			return err
		}
	}
	if err := serial.WriteFloat64(w, a.sizeFactor); err != nil {
		return err
	}
	if err := serial.WriteFloat64(w, a.fpp); err != nil {
		return err
	}
	if err := serial.WriteNumber(w, uint64(len(a.sizesV))); err != nil {
		return err
	}
	for _, s := range a.sizesV {
		if err := serial.WriteNumber(w, s); err != nil {
			return err
		}
	}

	return nil
}

// Load reads an Annotation previously written by Serialize, borrowing
// graph for key reconstruction in subsequent GetAnnotation calls.
func Load(r io.Reader, graph dbg.DBG) (*Annotation, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}

	numColumns, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}

	a := &Annotation{graph: graph}
	a.columns = make([]*bloomfilter.Filter, 0, numColumns)
	for c := uint64(0); c < numColumns; c++ {
		f, err := bloomfilter.Load(r)
		if err != nil {
			return nil, err
		}
		a.columns = append(a.columns, f)
	}

	sizeFactor, err := serial.ReadFloat64(r)
	if err != nil {
		return nil, err
	}
	a.sizeFactor = sizeFactor

	fpp, err := serial.ReadFloat64(r)
	if err != nil {
		return nil, err
	}
	a.fpp = fpp

	sizesCount, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}
	sizes := make([]uint64, 0, sizesCount)
	for i := uint64(0); i < sizesCount; i++ {
		s, err := serial.ReadNumber(r)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, s)
	}
	a.sizesV = sizes

	if len(a.columns) > 0 {
		a.h = a.columns[0].H()
	}

	return a, nil
}
