package dbg

import (
	"fmt"
	"strings"
	"sync"

	"github.com/katalvlaran/kmerannot/alphabet"
)

// HashDBG is the reference DBG back-end: a kmer→edge_index map plus a
// parallel ordered sequence of the same kmers, so that NodeKmer is
// O(k) without a second hash probe.
//
// The parallel sequence is an append-only arena (one []byte holding
// every inserted (k+1)-mer back to back) rather than a slice of
// per-kmer strings: this sidesteps any question of pointer stability
// under a future rehash, since EdgeID i always resolves to
// arena[i*(k+1):(i+1)*(k+1)] regardless of how the lookup map itself
// is represented internally.
//
// HashDBG follows a build-then-freeze lifecycle: AddEdge may only be
// called before Freeze; all read operations are available both before
// and after Freeze, and are safe for unbounded concurrent readers once
// frozen.
type HashDBG struct {
	mu sync.RWMutex

	k      int
	frozen bool
	index  map[string]EdgeID
	arena  []byte // concatenation of each inserted (k+1)-mer, in EdgeID order
}

// NewHashDBG constructs an empty HashDBG over (k+1)-mers (edges) with
// node length k.
func NewHashDBG(k int) *HashDBG {
	return &HashDBG{
		k:     k,
		index: make(map[string]EdgeID),
	}
}

// AddEdge inserts the (k+1)-mer kmer, assigning it the next dense
// EdgeID if not already present. It is idempotent: re-inserting a
// known kmer returns its existing id. It returns ErrFrozen once the
// graph has been frozen.
func (d *HashDBG) AddEdge(kmer string) (EdgeID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frozen {
		return 0, ErrFrozen
	}
	if id, ok := d.index[kmer]; ok {
		return id, nil
	}
	id := EdgeID(len(d.index))
	d.index[kmer] = id
	d.arena = append(d.arena, kmer...)

	return id, nil
}

// Freeze transitions the graph to its read-only phase. Subsequent
// AddEdge calls return ErrFrozen. Freeze itself is not safe to call
// concurrently with AddEdge or with another Freeze; it is intended as
// the single build/read phase boundary.
func (d *HashDBG) Freeze() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frozen = true
}

// K returns the node length.
func (d *HashDBG) K() int { return d.k }

// NumEdges returns the number of live edges.
func (d *HashDBG) NumEdges() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.index)
}

// FirstEdge returns the smallest live edge id (always 0 for a
// non-empty graph).
func (d *HashDBG) FirstEdge() EdgeID { return 0 }

// LastEdge returns the largest live edge id.
func (d *HashDBG) LastEdge() EdgeID {
	n := d.NumEdges()
	if n == 0 {
		return 0
	}

	return EdgeID(n - 1)
}

// Encode maps every byte of seq outside Σ∖{$} to 'N'.
func (d *HashDBG) Encode(seq string) string {
	return strings.ReplaceAll(alphabet.Encode(seq), string(alphabet.Dummy), string(alphabet.Wildcard))
}

// Transform pads seq with boundary dummies unless rooted is true: it
// prepends (k+1) '$' and appends one '$', guaranteeing that every
// internal k-mer is represented and boundary edges are marked dummy.
// If rooted is true, seq is returned unchanged.
func (d *HashDBG) Transform(seq string, rooted bool) string {
	if rooted {
		return seq
	}

	return strings.Repeat(string(alphabet.Dummy), d.k+1) + seq + string(alphabet.Dummy)
}

func (d *HashDBG) kmerAt(e EdgeID) string {
	start := int(e) * (d.k + 1)

	return string(d.arena[start : start+d.k+1])
}

// MapKmer returns the edge id of the given (k+1)-mer.
func (d *HashDBG) MapKmer(kmer string) (EdgeID, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.index[kmer]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKmer, kmer)
	}

	return id, nil
}

// NodeKmer returns the length-k source node of edge e.
func (d *HashDBG) NodeKmer(e EdgeID) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if int(e) >= len(d.index) {
		return "", fmt.Errorf("%w: edge %d", ErrOutOfRange, e)
	}

	return d.kmerAt(e)[:d.k], nil
}

// EdgeLabel returns the final character of edge e.
func (d *HashDBG) EdgeLabel(e EdgeID) (byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if int(e) >= len(d.index) {
		return 0, fmt.Errorf("%w: edge %d", ErrOutOfRange, e)
	}

	return d.kmerAt(e)[d.k], nil
}

// IsDummyLabel reports whether c is the dummy boundary symbol.
func (d *HashDBG) IsDummyLabel(c byte) bool {
	return alphabet.IsDummy(c)
}

// IsDummyEdge reports whether any character of e's (k+1)-mer is the
// dummy symbol.
func (d *HashDBG) IsDummyEdge(e EdgeID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if int(e) >= len(d.index) {
		return false
	}

	return alphabet.ContainsDummy(d.kmerAt(e))
}

// NextEdge returns the unique successor of e reached by appending
// label c to e's suffix node. The candidate (k+1)-mer is fully
// determined by e and c, so no alphabet scan is needed here (compare
// PrevEdge, which has no explicit label and must scan Σ internally).
func (d *HashDBG) NextEdge(e EdgeID, c byte) (EdgeID, error) {
	d.mu.RLock()
	if int(e) >= len(d.index) {
		d.mu.RUnlock()
		return 0, fmt.Errorf("%w: edge %d", ErrOutOfRange, e)
	}
	kmer := d.kmerAt(e)
	d.mu.RUnlock()

	candidate := kmer[1:] + string(c)

	id, err := d.MapKmer(candidate)
	if err != nil {
		return 0, fmt.Errorf("%w: NextEdge(%d,%q)", ErrPreconditionViolated, e, c)
	}

	return id, nil
}

// PrevEdge returns the unique predecessor of e, found by scanning Σ
// in alphabet.Order for the one prefix character whose resulting
// (k+1)-mer is present. It returns ErrPreconditionViolated if zero or
// more than one predecessor exists.
func (d *HashDBG) PrevEdge(e EdgeID) (EdgeID, error) {
	d.mu.RLock()
	if int(e) >= len(d.index) {
		d.mu.RUnlock()
		return 0, fmt.Errorf("%w: edge %d", ErrOutOfRange, e)
	}
	kmer := d.kmerAt(e)
	d.mu.RUnlock()

	nodePrefix := kmer[:d.k]
	var found EdgeID
	count := 0
	for i := 0; i < len(alphabet.Order); i++ {
		candidate := string(alphabet.Order[i]) + nodePrefix
		if id, err := d.MapKmer(candidate); err == nil {
			found = id
			count++
		}
	}
	if count != 1 {
		return 0, fmt.Errorf("%w: PrevEdge(%d)", ErrPreconditionViolated, e)
	}

	return found, nil
}

// countSuccessors returns the number of distinct c in alphabet.Order
// for which NextEdge(e,c) succeeds.
func (d *HashDBG) countSuccessors(e EdgeID) int {
	count := 0
	for i := 0; i < len(alphabet.Order); i++ {
		if _, err := d.NextEdge(e, alphabet.Order[i]); err == nil {
			count++
		}
	}

	return count
}

// countPredecessors returns the number of distinct prefix characters
// in alphabet.Order for which a predecessor (k+1)-mer exists.
func (d *HashDBG) countPredecessors(e EdgeID) int {
	d.mu.RLock()
	if int(e) >= len(d.index) {
		d.mu.RUnlock()
		return 0
	}
	kmer := d.kmerAt(e)
	d.mu.RUnlock()

	nodePrefix := kmer[:d.k]
	count := 0
	for i := 0; i < len(alphabet.Order); i++ {
		candidate := string(alphabet.Order[i]) + nodePrefix
		if _, err := d.MapKmer(candidate); err == nil {
			count++
		}
	}

	return count
}

// HasOnlyOutgoing reports whether e's destination node has exactly
// one outgoing edge.
func (d *HashDBG) HasOnlyOutgoing(e EdgeID) bool {
	return d.countSuccessors(e) == 1
}

// HasOnlyIncoming reports whether e's source node has exactly one
// incoming edge.
func (d *HashDBG) HasOnlyIncoming(e EdgeID) bool {
	return d.countPredecessors(e) == 1
}

var _ DBG = (*HashDBG)(nil)
