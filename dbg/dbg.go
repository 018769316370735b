package dbg

// EdgeID is a dense, non-negative edge identifier assigned in
// insertion order. Indices are stable for the lifetime of the graph.
type EdgeID uint64

// DBG is the capability set any de Bruijn graph back-end must
// provide. HashDBG is the reference implementation; a succinct
// back-end can implement the same interface without changing any
// annotator.
type DBG interface {
	// K returns the node length.
	K() int

	// NumEdges returns the number of live edges.
	NumEdges() int

	// FirstEdge returns the smallest live edge id.
	FirstEdge() EdgeID

	// LastEdge returns the largest live edge id.
	LastEdge() EdgeID

	// Encode maps any character outside Σ∖{$} to 'N'.
	Encode(seq string) string

	// Transform pads seq with boundary dummies unless rooted is true,
	// guaranteeing that every internal k-mer is represented and
	// boundary edges are marked dummy.
	Transform(seq string, rooted bool) string

	// MapKmer returns the edge id of the given (k+1)-mer. It returns
	// ErrUnknownKmer if the kmer is absent.
	MapKmer(kmer string) (EdgeID, error)

	// NodeKmer returns the length-k source node of edge e.
	NodeKmer(e EdgeID) (string, error)

	// EdgeLabel returns the final character of edge e (its (k+1)-th
	// symbol).
	EdgeLabel(e EdgeID) (byte, error)

	// HasOnlyOutgoing reports whether e's destination node has
	// exactly one outgoing edge (a unitig-interior condition).
	HasOnlyOutgoing(e EdgeID) bool

	// HasOnlyIncoming reports whether e's source node has exactly
	// one incoming edge (a unitig-interior condition).
	HasOnlyIncoming(e EdgeID) bool

	// IsDummyLabel reports whether c is the dummy boundary symbol.
	IsDummyLabel(c byte) bool

	// IsDummyEdge reports whether any character of e's (k+1)-mer is
	// the dummy symbol.
	IsDummyEdge(e EdgeID) bool

	// NextEdge returns the unique successor of e reached by
	// appending label c to e's suffix. Its precondition is that such
	// a successor exists; on a missing neighbour NextEdge returns
	// ErrPreconditionViolated instead of panicking.
	NextEdge(e EdgeID, c byte) (EdgeID, error)

	// PrevEdge returns the unique predecessor of e. Its precondition
	// is that exactly one predecessor exists.
	PrevEdge(e EdgeID) (EdgeID, error)
}
