package annotation

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/kmerannot/dbg"
	"github.com/katalvlaran/kmerannot/serial"
)

// ExportRows writes, for each edge id in [0, numEdges) in ascending
// order, its (optionally permuted) bit vector as a Number bit-count
// followed by one byte per bit (0x00/0x01), the simplest possible
// row-major dump for external consumption.
func (a *Annotation) ExportRows(w io.Writer, permute bool) error {
	a.mu.RLock()
	numEdges := a.numEdges
	a.mu.RUnlock()

	for e := 0; e < numEdges; e++ {
		row, err := a.AnnotateEdge(dbg.EdgeID(e), permute)
		if err != nil {
			return err
		}
		if err := serial.WriteNumber(w, uint64(len(row))); err != nil {
			return err
		}
		for _, bit := range row {
			var b [1]byte
			if bit {
				b[0] = 1
			}
			if _, err := w.Write(b[:]); err != nil {
				return err
			}
		}
	}

	return nil
}

// Serialize writes the annotation as: Number num_columns, then per
// column a length-prefixed bitset of N bits, followed by the
// prefix-index set as Number count and Number entries.
func (a *Annotation) Serialize(w io.Writer) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if err := serial.WriteNumber(w, uint64(len(a.columns))); err != nil {
		return err
	}
	for _, col := range a.columns {
		if err := serial.WriteNumber(w, uint64(a.numEdges)); err != nil {
			return err
		}
		raw := packBitset(col, a.numEdges)
		if _, err := w.Write(raw); err != nil {
			return err
		}
	}

	if err := serial.WriteNumber(w, uint64(len(a.prefix))); err != nil {
		return err
	}
	for _, p := range a.prefix {
		if err := serial.WriteNumber(w, uint64(p)); err != nil {
			return err
		}
	}

	return nil
}

// Load reads an Annotation previously written by Serialize, borrowing
// graph for edge-range validation (graph.NumEdges() becomes the
// annotation's per-column bitset size).
func Load(r io.Reader, graph dbg.DBG) (*Annotation, error) {
	if graph == nil {
		return nil, ErrNilDBG
	}

	numColumns, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}

	a := &Annotation{graph: graph, numEdges: graph.NumEdges()}
	a.columns = make([]*bitset.BitSet, 0, numColumns)
	for c := uint64(0); c < numColumns; c++ {
		n, err := serial.ReadNumber(r)
		if err != nil {
			return nil, err
		}
		raw := make([]byte, (n+7)/8)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: annotation column %d bitset: %v", serial.ErrFormat, c, err)
		}
		a.columns = append(a.columns, unpackBitset(raw, n))
	}

	prefixCount, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}
	prefix := make([]int, 0, prefixCount)
	for i := uint64(0); i < prefixCount; i++ {
		p, err := serial.ReadNumber(r)
		if err != nil {
			return nil, err
		}
		prefix = append(prefix, int(p))
	}
	a.prefix = prefix

	return a, nil
}

func packBitset(b *bitset.BitSet, n int) []byte {
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		if b.Test(uint(i)) {
			out[i/8] |= 1 << (i % 8)
		}
	}

	return out
}

func unpackBitset(raw []byte, n uint64) *bitset.BitSet {
	b := bitset.New(uint(n))
	for i := uint64(0); i < n; i++ {
		if raw[i/8]&(1<<(i%8)) != 0 {
			b.Set(uint(i))
		}
	}

	return b
}
