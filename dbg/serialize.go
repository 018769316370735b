package dbg

import (
	"fmt"
	"io"

	"github.com/katalvlaran/kmerannot/serial"
)

// Serialize writes the graph as: Number |kmers|, Number k, String map
// (kmer → edge_index).
func (d *HashDBG) Serialize(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := serial.WriteNumber(w, uint64(len(d.index))); err != nil {
		return err
	}
	if err := serial.WriteNumber(w, uint64(d.k)); err != nil {
		return err
	}

	keys := make([]string, 0, len(d.index))
	values := make([]uint64, 0, len(d.index))
	// Serialize in EdgeID order for a deterministic, reproducible
	// byte stream (map iteration order is not stable in Go).
	byID := make([]string, len(d.index))
	for kmer, id := range d.index {
		byID[id] = kmer
	}
	for id, kmer := range byID {
		keys = append(keys, kmer)
		values = append(values, uint64(id))
	}

	return serial.WriteStringMap(w, keys, values)
}

// Load reads a HashDBG previously written by Serialize. It returns
// ErrWrongK if the header's k disagrees with d's current k, and
// serial.ErrFormat on truncated or malformed input.
func (d *HashDBG) Load(r io.Reader) error {
	numKmers, err := serial.ReadNumber(r)
	if err != nil {
		return err
	}
	k, err := serial.ReadNumber(r)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if int(k) != d.k {
		return fmt.Errorf("%w: loaded k=%d, have k=%d", ErrWrongK, k, d.k)
	}

	keys, values, err := serial.ReadStringMap(r)
	if err != nil {
		return err
	}
	if uint64(len(keys)) != numKmers {
		return fmt.Errorf("%w: header declared %d kmers, map has %d", serial.ErrFormat, numKmers, len(keys))
	}

	index := make(map[string]EdgeID, len(keys))
	arena := make([]byte, 0, len(keys)*(int(k)+1))
	byID := make([]string, len(keys))
	for i, kmer := range keys {
		byID[values[i]] = kmer
	}
	for id, kmer := range byID {
		index[kmer] = EdgeID(id)
		arena = append(arena, kmer...)
	}

	d.k = int(k)
	d.index = index
	d.arena = arena
	d.frozen = false

	return nil
}
