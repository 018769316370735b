// Package kmerannot annotates the edges of a de Bruijn graph over
// k-mers with column memberships, exactly or approximately.
//
// The core pieces, smallest first:
//
//	hashfam/     — deterministic family of independent 64-bit hashes
//	bloomfilter/ — single Bloom filter: insert, test, FPP, wire format
//	bitvector/   — packed bit vector with rank1/rank0
//	dbg/         — the DBG capability set and its HashDBG back-end
//	annotation/  — exact, per-column edge-index sets
//	bloomannot/  — approximate per-column Bloom filters, with
//	               topology-aware correction via unitig walks
//	wavelettrie/ — succinct sequence of arbitrary-precision bitsets
//	serial/      — the little-endian binary wire format shared by
//	               dbg, annotation and bloomannot
//
// A DBG is built once and frozen; annotators borrow it by reference
// and append columns until their own build phase closes, after which
// every read operation is safe for unbounded concurrent readers.
package kmerannot
