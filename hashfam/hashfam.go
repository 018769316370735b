// Package hashfam provides a deterministic family of independent
// 64-bit hash functions over byte strings, used by bloomfilter to
// derive the h bit positions a single insertion touches.
//
// The family is seeded so that a serialized Bloom filter (which
// stores the seed alongside its bit array) remains queryable across
// process restarts:
// two Family values built with the same seed and size agree on every
// member's output for any input.
package hashfam

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Family is a deterministic vector of h independent 64-bit hashes.
//
// Member 0 is xxhash64 of seed‖data. Member i>=1 alternates xxhash and
// murmur3, each salted by a distinct per-index value derived from
// seed, so the whole family is built from two independent primitives;
// every member is a fresh hash of data under its own salt.
type Family struct {
	h    int
	seed uint64
}

// New builds a Family with h independent members, seeded by seed.
// h is clamped to a minimum of 1.
func New(h int, seed uint64) *Family {
	if h < 1 {
		h = 1
	}

	return &Family{h: h, seed: seed}
}

// Len returns the number of independent hash members in the family.
func (f *Family) Len() int { return f.h }

// Seed returns the family's seed, as stored in serialized form.
func (f *Family) Seed() uint64 { return f.seed }

// salted returns data prefixed with an 8-byte little-endian encoding
// of salt, reusing buf's backing array when it has enough capacity.
func salted(buf []byte, salt uint64, data []byte) []byte {
	buf = buf[:0]
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], salt)
	buf = append(buf, tmp[:]...)
	buf = append(buf, data...)

	return buf
}

// Hash returns the i-th family member's hash of data.
// i must be in [0, Len()).
func (f *Family) Hash(i int, data []byte) uint64 {
	var buf [64]byte
	salt := f.seed + uint64(i)*0x9E3779B97F4A7C15 // distinct per-member salt
	if i%2 == 0 {
		return xxhash.Sum64(salted(buf[:0], salt, data))
	}

	return murmur3.Sum64WithSeed(data, uint32(salt))
}

// Hashes returns all h family members' hashes of data, in member
// order. It is the hot path bloomfilter uses for insert/test.
func (f *Family) Hashes(data []byte) []uint64 {
	out := make([]uint64, f.h)
	for i := 0; i < f.h; i++ {
		out[i] = f.Hash(i, data)
	}

	return out
}
