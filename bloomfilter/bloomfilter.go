// Package bloomfilter implements a single Bloom filter: a bit array
// plus an h-wide hashfam.Family, supporting insert, membership test,
// false-positive-rate estimation, and a binary wire format.
//
// Two construction modes are supported: NewFromFPP derives m/n and h
// from a target false-positive probability (the formulas
// entreya/csvquery's bloom.go names directly: m = -n*ln(p)/ln(2)^2,
// k = (m/n)*ln(2)); New takes m and h explicitly.
package bloomfilter

import (
	"fmt"
	"io"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/kmerannot/hashfam"
	"github.com/katalvlaran/kmerannot/serial"
)

// Filter is a single Bloom filter over arbitrary byte-string keys.
type Filter struct {
	bits   *bitset.BitSet
	family *hashfam.Family
	m      uint64 // number of bits
	h      int    // number of hash functions
	n      uint64 // number of insertions observed
}

// New constructs a Filter with m bits and h hash functions, seeded
// deterministically by seed so that a serialized filter stays
// queryable after reload.
func New(m uint64, h int, seed uint64) *Filter {
	if m < 1 {
		m = 1
	}
	if h < 1 {
		h = 1
	}

	return &Filter{
		bits:   bitset.New(uint(m)),
		family: hashfam.New(h, seed),
		m:      m,
		h:      h,
	}
}

// NewFromFPP constructs a Filter sized for n expected insertions at a
// target false-positive probability p:
//
//	m/n = -log2(p) / ln(2)
//	h   = round((m/n) * ln(2)), minimum 1
func NewFromFPP(n uint64, p float64, seed uint64) *Filter {
	if n < 1 {
		n = 1
	}
	if p <= 0 || p >= 1 {
		p = 0.01
	}

	bitsPerElement := -math.Log2(p) / math.Ln2
	m := uint64(math.Ceil(bitsPerElement * float64(n)))
	h := int(math.Round(bitsPerElement * math.Ln2))
	if h < 1 {
		h = 1
	}

	return New(m, h, seed)
}

// M returns the number of bits in the filter.
func (f *Filter) M() uint64 { return f.m }

// H returns the number of hash functions used per insertion.
func (f *Filter) H() int { return f.h }

// N returns the number of insertions observed so far.
func (f *Filter) N() uint64 { return f.n }

// Insert adds key to the filter, setting h bit positions derived from
// h independent 64-bit hashes of key.
func (f *Filter) Insert(key []byte) {
	for _, pos := range f.positions(key) {
		f.bits.Set(uint(pos))
	}
	f.n++
}

// Test reports whether key may have been inserted. It never returns a
// false negative; it may return a false positive.
func (f *Filter) Test(key []byte) bool {
	for _, pos := range f.positions(key) {
		if !f.bits.Test(uint(pos)) {
			return false
		}
	}

	return true
}

// positions derives f.h bit positions for key from the hash family,
// reducing each 64-bit hash into [0, m) by Lemire's multiply-shift
// trick (avoids a division per hash).
func (f *Filter) positions(key []byte) []uint64 {
	hashes := f.family.Hashes(key)
	out := make([]uint64, len(hashes))
	for i, h := range hashes {
		out[i] = reduce(h, f.m)
	}

	return out
}

func reduce(h, m uint64) uint64 {
	hi, _ := bitsMul64(h, m)
	return hi
}

// bitsMul64 returns the high and low 64 bits of h*m.
func bitsMul64(h, m uint64) (hi, lo uint64) {
	const mask32 = 1<<32 - 1
	hHi, hLo := h>>32, h&mask32
	mHi, mLo := m>>32, m&mask32

	ll := hLo * mLo
	lh := hLo * mHi
	hl := hHi * mLo
	hh := hHi * mHi

	mid := (ll >> 32) + (lh & mask32) + (hl & mask32)
	hi = hh + (lh >> 32) + (hl >> 32) + (mid >> 32)
	lo = (mid << 32) | (ll & mask32)

	return hi, lo
}

// ApproxFalsePositiveRate returns the filter's current estimated
// false-positive probability:
//
//	(1 - e^(-h*n/m))^h
func (f *Filter) ApproxFalsePositiveRate() float64 {
	if f.m == 0 {
		return 1
	}
	exponent := -float64(f.h) * float64(f.n) / float64(f.m)

	return math.Pow(1-math.Exp(exponent), float64(f.h))
}

// Serialize writes the filter as: Number m, Number h, Number seed,
// raw bit array of ceil(m/8) bytes.
func (f *Filter) Serialize(w io.Writer) error {
	if err := serial.WriteNumber(w, f.m); err != nil {
		return err
	}
	if err := serial.WriteNumber(w, uint64(f.h)); err != nil {
		return err
	}
	if err := serial.WriteNumber(w, f.family.Seed()); err != nil {
		return err
	}
	raw := bitsetBytes(f.bits, f.m)
	_, err := w.Write(raw)

	return err
}

// Load reads a Filter previously written by Serialize. It returns
// serial.ErrFormat if the encoded sizes are inconsistent with the
// remaining input.
func Load(r io.Reader) (*Filter, error) {
	m, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}
	hNum, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}
	seed, err := serial.ReadNumber(r)
	if err != nil {
		return nil, err
	}
	nBytes := (m + 7) / 8
	raw := make([]byte, nBytes)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: bloom filter bit array: %v", serial.ErrFormat, err)
	}

	f := New(m, int(hNum), seed)
	setBitsetBytes(f.bits, raw, m)

	return f, nil
}

func bitsetBytes(b *bitset.BitSet, m uint64) []byte {
	nBytes := (m + 7) / 8
	out := make([]byte, nBytes)
	for i := uint64(0); i < m; i++ {
		if b.Test(uint(i)) {
			out[i/8] |= 1 << (i % 8)
		}
	}

	return out
}

func setBitsetBytes(b *bitset.BitSet, raw []byte, m uint64) {
	for i := uint64(0); i < m; i++ {
		if raw[i/8]&(1<<(i%8)) != 0 {
			b.Set(uint(i))
		}
	}
}

