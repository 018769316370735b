// Package serial implements a little-endian binary wire format: a
// Number primitive (unsigned 64-bit), a length-prefixed String built
// on top of it, and a String map (sequence of key/value pairs). dbg,
// annotation and bloomannot all build their serialization on these
// three primitives.
//
// The fixed-header-then-payload convention here is the same one
// entreya/csvquery's bloom.go uses for its own Serialize/Deserialize
// pair, generalized from one hardcoded struct layout to three reusable
// codecs.
package serial

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrFormat indicates corrupt or truncated serialized input: a length
// prefix exceeding the remaining input, or a malformed header.
var ErrFormat = errors.New("serial: format error")

// WriteNumber writes v as a little-endian uint64.
func WriteNumber(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])

	return err
}

// ReadNumber reads a little-endian uint64. It returns ErrFormat if
// fewer than 8 bytes remain.
func ReadNumber(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: number: %v", ErrFormat, err)
	}

	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteString writes s as a Number length prefix followed by its raw
// bytes.
func WriteString(w io.Writer, s string) error {
	if err := WriteNumber(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)

	return err
}

// maxReasonableLen bounds a single String's declared length so that a
// corrupt prefix cannot force an enormous allocation before the
// read fails.
const maxReasonableLen = 1 << 34

// ReadString reads a length-prefixed string. It returns ErrFormat if
// the declared length exceeds maxReasonableLen or the payload is
// truncated.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadNumber(r)
	if err != nil {
		return "", err
	}
	if n > maxReasonableLen {
		return "", fmt.Errorf("%w: string length %d exceeds limit", ErrFormat, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: string payload: %v", ErrFormat, err)
	}

	return string(buf), nil
}

// WriteStringMap writes m as a Number count followed by count ×
// (String key, Number value) pairs, in the iteration order of keys.
func WriteStringMap(w io.Writer, keys []string, values []uint64) error {
	if len(keys) != len(values) {
		return fmt.Errorf("serial: WriteStringMap: %d keys but %d values", len(keys), len(values))
	}
	if err := WriteNumber(w, uint64(len(keys))); err != nil {
		return err
	}
	for i, k := range keys {
		if err := WriteString(w, k); err != nil {
			return err
		}
		if err := WriteNumber(w, values[i]); err != nil {
			return err
		}
	}

	return nil
}

// ReadStringMap reads a String map written by WriteStringMap,
// returning parallel key/value slices in file order.
func ReadStringMap(r io.Reader) (keys []string, values []uint64, err error) {
	n, err := ReadNumber(r)
	if err != nil {
		return nil, nil, err
	}
	if n > maxReasonableLen {
		return nil, nil, fmt.Errorf("%w: string map count %d exceeds limit", ErrFormat, n)
	}
	keys = make([]string, 0, n)
	values = make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		k, err := ReadString(r)
		if err != nil {
			return nil, nil, err
		}
		v, err := ReadNumber(r)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, k)
		values = append(values, v)
	}

	return keys, values, nil
}

// WriteFloat64 writes an IEEE-754 double, little-endian, as used by
// the Bloom-annotation footer (size_factor_, fpp_).
func WriteFloat64(w io.Writer, v float64) error {
	return WriteNumber(w, math.Float64bits(v))
}

// ReadFloat64 reads an IEEE-754 double written by WriteFloat64.
func ReadFloat64(r io.Reader) (float64, error) {
	bits, err := ReadNumber(r)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(bits), nil
}
