package wavelettrie_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kmerannot/wavelettrie"
)

func bigInts(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}

	return out
}

func TestAtAndSize(t *testing.T) {
	trie := wavelettrie.New(bigInts(0b1, 0b11, 0b101, 0b11), 1)
	require.Equal(t, 4, trie.Size())

	want := []int64{1, 3, 5, 3}
	for i, w := range want {
		got, err := trie.At(i)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), got)
	}
}

func TestInsertAtPosition(t *testing.T) {
	base := wavelettrie.New(bigInts(0b1, 0b101), 1)
	incoming := wavelettrie.New(bigInts(0b11, 0b11), 1)

	require.NoError(t, base.InsertAt(incoming, 2))
	require.Equal(t, 4, base.Size())

	want := []int64{1, 5, 3, 3}
	for i, w := range want {
		got, err := base.At(i)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), got)
	}
}

func TestInsertAppendsAtEnd(t *testing.T) {
	a := wavelettrie.New(bigInts(1, 2, 3), 1)
	b := wavelettrie.New(bigInts(4, 5), 1)
	require.NoError(t, a.Insert(b))

	want := []int64{1, 2, 3, 4, 5}
	for i, w := range want {
		got, err := a.At(i)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), got)
	}
}

func TestAtOutOfRange(t *testing.T) {
	trie := wavelettrie.New(bigInts(1, 2), 1)
	_, err := trie.At(5)
	require.ErrorIs(t, err, wavelettrie.ErrOutOfRange)
}

func TestInsertAtOutOfRange(t *testing.T) {
	trie := wavelettrie.New(bigInts(1, 2), 1)
	other := wavelettrie.New(bigInts(3), 1)
	err := trie.InsertAt(other, 99)
	require.ErrorIs(t, err, wavelettrie.ErrOutOfRange)
}

func TestEmptyTrie(t *testing.T) {
	trie := wavelettrie.New(nil, 1)
	require.Equal(t, 0, trie.Size())
	_, err := trie.At(0)
	require.Error(t, err)
}

func TestEqual(t *testing.T) {
	a := wavelettrie.New(bigInts(1, 2, 3), 1)
	b := wavelettrie.New(bigInts(1, 2, 3), 1)
	c := wavelettrie.New(bigInts(1, 2, 4), 1)
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestParallelInvariance(t *testing.T) {
	// Serial and parallel builds over the same values must produce
	// identical sequences.
	vals := bigInts(1, 3, 5, 3, 7, 0, 255, 128, 1, 2, 9, 17, 33, 6, 4, 12)
	serial := wavelettrie.New(vals, 1)
	parallel := wavelettrie.New(vals, 4)

	require.Equal(t, serial.Size(), parallel.Size())
	require.True(t, serial.Equal(parallel), "parallel build must match serial build")
}

func TestInsertSplitEquivalence(t *testing.T) {
	// Building a trie from S1 then inserting a trie built from S2 at
	// position k=|S1| must equal the trie built directly from S1 . S2.
	s1 := []int64{2, 4, 6, 8}
	s2 := []int64{1, 3, 5}
	whole := append(append([]int64{}, s1...), s2...)

	direct := wavelettrie.New(bigInts(whole...), 1)

	wt1 := wavelettrie.New(bigInts(s1...), 1)
	wt2 := wavelettrie.New(bigInts(s2...), 1)
	require.NoError(t, wt1.InsertAt(wt2, len(s1)))

	require.True(t, direct.Equal(wt1))
}

func TestLargeValuesBeyond64Bits(t *testing.T) {
	huge1 := new(big.Int).Lsh(big.NewInt(1), 200)
	huge2 := new(big.Int).Add(huge1, big.NewInt(3))
	trie := wavelettrie.New([]*big.Int{huge1, huge2, huge1}, 2)

	got0, err := trie.At(0)
	require.NoError(t, err)
	require.Equal(t, 0, huge1.Cmp(got0))

	got1, err := trie.At(1)
	require.NoError(t, err)
	require.Equal(t, 0, huge2.Cmp(got1))
}
