package wavelettrie

import (
	"math/big"

	"github.com/katalvlaran/kmerannot/bitvector"
)

// node is one level of the binary trie: commonPrefix
// (prefixLen significant bits, value in [0, 2^prefixLen)) is shared by
// every element passing through this node; bits records, for each of
// those elements in order, whether its next significant bit sends it
// left (0) or right (1). A leaf has bits == nil and holds leafSize
// elements, all of which are now fully determined by the accumulated
// path of common prefixes and branch bits from the root — no further
// storage is needed since every such element has the same value.
type node struct {
	commonPrefix *big.Int
	prefixLen    int
	bits         *bitvector.BitVector
	left, right  *node
	leafSize     int
}

// buildNode constructs the subtree representing values, each still
// carrying its significant bits down through position bitPos
// (inclusive) to 0. Order within values is preserved in the resulting
// bits vectors and leaf counts.
func buildNode(values []*big.Int, bitPos int) *node {
	prefix := new(big.Int)
	prefixLen := 0
	pos := bitPos
	for pos >= 0 {
		first := values[0].Bit(pos)
		agree := true
		for _, v := range values[1:] {
			if v.Bit(pos) != first {
				agree = false
				break
			}
		}
		if !agree {
			break
		}
		prefix.Lsh(prefix, 1)
		if first == 1 {
			prefix.SetBit(prefix, 0, 1)
		}
		prefixLen++
		pos--
	}

	if pos < 0 {
		return &node{commonPrefix: prefix, prefixLen: prefixLen, leafSize: len(values)}
	}

	bv := bitvector.New(len(values))
	var leftVals, rightVals []*big.Int
	for _, v := range values {
		bit := v.Bit(pos) == 1
		bv.Push(bit)
		if bit {
			rightVals = append(rightVals, v)
		} else {
			leftVals = append(leftVals, v)
		}
	}

	return &node{
		commonPrefix: prefix,
		prefixLen:    prefixLen,
		bits:         bv,
		left:         buildNode(leftVals, pos-1),
		right:        buildNode(rightVals, pos-1),
	}
}

// size returns the number of elements represented under n.
func (n *node) size() int {
	if n.bits == nil {
		return n.leafSize
	}

	return n.bits.Len()
}

// at reconstructs the i-th element represented under n by accumulating
// the common prefix at each level, and at each bit vector using
// rank1(i)/rank0(i) to descend and update i.
func (n *node) at(i int) *big.Int {
	result := new(big.Int)
	cur := n
	idx := i
	for {
		result.Lsh(result, uint(cur.prefixLen))
		result.Or(result, cur.commonPrefix)

		if cur.bits == nil {
			return result
		}

		if cur.bits.Get(idx) {
			idx = cur.bits.Rank1(idx)
			result.Lsh(result, 1)
			result.SetBit(result, 0, 1)
			cur = cur.right
		} else {
			idx = cur.bits.Rank0(idx)
			result.Lsh(result, 1)
			cur = cur.left
		}
	}
}
