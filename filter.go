// Package xorfilter implements xor filters: compact, immutable
// approximate-membership data structures for sets of 64-bit integer keys.
//
// A populated filter answers "is k in S?" with no false negatives and a
// small, bounded false-positive rate: about 0.39% for 8-bit fingerprints
// and about 2^-16 for 16-bit fingerprints, at roughly 1.23x the
// information-theoretic minimum space for the chosen fingerprint width.
//
// Filters are built once via New + Populate and are immutable and safely
// shareable across goroutines from then on: Contains takes no lock and
// mutates nothing. There is no insert, delete, or resize; build a new
// filter instead.
package xorfilter

import (
	"fmt"
)

// Cell is the fingerprint cell width a Filter is built over. Only uint8
// and uint16 are supported, giving the 8-bit and 16-bit filter variants.
type Cell interface {
	~uint8 | ~uint16
}

// Filter is an immutable xor filter over keys of type uint64, with
// fingerprint cells of width T.
//
// The zero Filter is not usable; construct one with New and populate it
// with Populate.
type Filter[T Cell] struct {
	seed         uint64
	blockLength  uint64
	fingerprints []T
}

// Filter8 is the 8-bit fingerprint variant: ~0.39% false-positive rate.
type Filter8 = Filter[uint8]

// Filter16 is the 16-bit fingerprint variant: ~2^-16 false-positive rate.
type Filter16 = Filter[uint16]

// New allocates a filter sized to hold up to n keys. The returned filter
// has zeroed fingerprint cells and must be populated with Populate before
// Contains returns meaningful answers.
//
// New returns an error only when n is negative. It does not report a slot
// array too large to allocate as an error: make panics, or the runtime
// aborts when memory is exhausted.
func New[T Cell](n int) (*Filter[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("xorfilter: New: %w: negative size %d", ErrAllocationFailed, n)
	}

	capacity := allocationSize(n)

	fingerprints := make([]T, capacity)
	return &Filter[T]{
		blockLength:  capacity / 3,
		fingerprints: fingerprints,
	}, nil
}

// New8 allocates an 8-bit filter sized to hold up to n keys.
func New8(n int) (*Filter8, error) { return New[uint8](n) }

// New16 allocates a 16-bit filter sized to hold up to n keys.
func New16(n int) (*Filter16, error) { return New[uint16](n) }

// allocationSize computes the total slot count for n keys: floor((32 +
// 1.23*n) / 3) * 3, guaranteeing peeling succeeds with high probability on
// the first few seed attempts.
func allocationSize(n int) uint64 {
	capacity := uint64(32 + 1.23*float64(n))
	return capacity / 3 * 3
}

// Contains reports whether key was a member of the set this filter was
// populated from. False positives are possible at the filter's configured
// rate; false negatives never occur for keys that were present at
// Populate time.
//
// Contains is a pure function of the filter's contents: it takes no lock,
// allocates nothing, and is safe to call concurrently from any number of
// goroutines.
func (f *Filter[T]) Contains(key uint64) bool {
	h := mixSplit(key, f.seed)
	hs := hashesForHash(h, f.blockLength)
	fp := truncate[T](h)
	fp ^= f.fingerprints[hs.h0]
	fp ^= f.fingerprints[hs.h1]
	fp ^= f.fingerprints[hs.h2]
	return fp == 0
}

// BlockLength returns the number of slots per block; the filter's total
// slot count is 3*BlockLength.
func (f *Filter[T]) BlockLength() uint64 {
	return f.blockLength
}

// Seed returns the filter's current construction seed.
func (f *Filter[T]) Seed() uint64 {
	return f.seed
}

// Cells returns the filter's raw fingerprint slots, in slot-index order.
// Callers use this to copy the filter's contents for serialization;
// xorfilter itself has no built-in persistence. Mutating the returned
// slice corrupts the filter.
func (f *Filter[T]) Cells() []T {
	return f.fingerprints
}

// Load reconstructs a Filter from a seed, block length, and fingerprint
// cells previously obtained from Seed, BlockLength, and Cells, typically
// round-tripped through a serialization format such as filterio.Encode /
// filterio.Decode. Load does not validate that cells actually satisfies
// the xor-filter invariant for any particular key set; corrupted cell
// values or a mismatched seed produce a filter that answers Contains
// incorrectly. Load does not check that len(cells) is 3*blockLength
// either: if cells is shorter, Contains can panic with an index out of
// range.
func Load[T Cell](seed, blockLength uint64, cells []T) *Filter[T] {
	return &Filter[T]{seed: seed, blockLength: blockLength, fingerprints: cells}
}

// SizeInBytes reports the filter's memory footprint: the fingerprint
// array plus a fixed header for the seed and block length.
func (f *Filter[T]) SizeInBytes() int {
	var zero T
	cellSize := 0
	switch any(zero).(type) {
	case uint8:
		cellSize = 1
	case uint16:
		cellSize = 2
	}
	const headerSize = 16 // seed (uint64) + blockLength (uint64)
	return 3*int(f.blockLength)*cellSize + headerSize
}
