package wavelettrie

import (
	"context"
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"
)

// Trie is an ordered, succinct sequence of arbitrary-precision
// unsigned integers.
type Trie struct {
	root *node
	size int
}

// New builds a Trie over values, honoring their order. workers is a
// thread-count hint (workers<=1 means serial); the observable sequence
// is invariant under workers.
func New(values []*big.Int, workers int) *Trie {
	if len(values) == 0 {
		return &Trie{root: &node{commonPrefix: new(big.Int)}, size: 0}
	}
	if workers < 1 {
		workers = 1
	}

	maxBits := 0
	for _, v := range values {
		if bl := v.BitLen(); bl > maxBits {
			maxBits = bl
		}
	}
	topBit := maxBits - 1

	if workers == 1 || len(values) <= workers {
		return &Trie{root: buildNode(cloneValues(values), topBit), size: len(values)}
	}

	chunks := splitChunks(values, workers)
	tries := make([]*Trie, len(chunks))
	g, _ := errgroup.WithContext(context.Background())
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		g.Go(func() error {
			tries[idx] = &Trie{root: buildNode(cloneValues(chunk), topBit), size: len(chunk)}

			return nil
		})
	}
	// errgroup's Go never returns an error here (buildNode cannot
	// fail), so the only possible Wait() error would indicate a bug.
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("wavelettrie: unexpected build error: %v", err))
	}

	merged := tries[0]
	for i := 1; i < len(tries); i++ {
		_ = merged.InsertAt(tries[i], merged.size) // position is always merged.size, always valid
	}

	return merged
}

// splitChunks partitions values into at most workers contiguous,
// order-preserving slices.
func splitChunks(values []*big.Int, workers int) [][]*big.Int {
	n := len(values)
	if workers > n {
		workers = n
	}
	base := n / workers
	rem := n % workers

	chunks := make([][]*big.Int, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks = append(chunks, values[start:start+size])
		start += size
	}

	return chunks
}

func cloneValues(values []*big.Int) []*big.Int {
	out := make([]*big.Int, len(values))
	copy(out, values)

	return out
}

// Size returns the number of elements in the sequence.
func (t *Trie) Size() int { return t.size }

// At returns the i-th element, i in [0, Size()).
func (t *Trie) At(i int) (*big.Int, error) {
	if i < 0 || i >= t.size {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}

	return t.root.at(i), nil
}

// Values returns every element of the sequence, in order. It is the
// basis for Insert/InsertAt, which reconcile two sequences by
// splicing their extracted values and rebuilding a single trie rather
// than splicing nodes in place, chosen to keep the splice logic simple
// and provably correct; it preserves every observable contract (Size,
// At, Equal, parallel invariance) at the cost of doing O(total bits)
// work on every insert rather than only touching the affected nodes.
func (t *Trie) Values() []*big.Int {
	out := make([]*big.Int, t.size)
	for i := 0; i < t.size; i++ {
		out[i] = t.root.at(i)
	}

	return out
}

// InsertAt splices other's sequence into t at position, shifting t's
// elements at [position, Size()) to follow the inserted run. It
// returns ErrOutOfRange if position is not in [0, Size()].
func (t *Trie) InsertAt(other *Trie, position int) error {
	if position < 0 || position > t.size {
		return fmt.Errorf("%w: insert position %d", ErrOutOfRange, position)
	}

	mine := t.Values()
	theirs := other.Values()
	merged := make([]*big.Int, 0, len(mine)+len(theirs))
	merged = append(merged, mine[:position]...)
	merged = append(merged, theirs...)
	merged = append(merged, mine[position:]...)

	rebuilt := New(merged, 1)
	t.root = rebuilt.root
	t.size = rebuilt.size

	return nil
}

// Insert appends other's sequence to the end of t.
func (t *Trie) Insert(other *Trie) error {
	return t.InsertAt(other, t.size)
}

// Equal reports whether t and o represent equal sequences of integers,
// element-wise.
func (t *Trie) Equal(o *Trie) bool {
	if t.size != o.size {
		return false
	}
	for i := 0; i < t.size; i++ {
		if t.root.at(i).Cmp(o.root.at(i)) != 0 {
			return false
		}
	}

	return true
}
