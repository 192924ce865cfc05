// Package filterio serializes xorfilter.Filter values to and from the
// persisted layout the xorfilter package itself does not manage: a filter
// is an in-memory library type with no notion of disk or network I/O, so
// callers who want to persist one use this package (or roll their own)
// rather than the filter type growing I/O methods of its own.
package filterio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/codeGROOVE-dev/xorfilter"
)

// Accessor is the subset of xorfilter.Filter[T] needed to encode it. The
// xorfilter package exposes Seed, BlockLength, and Cells precisely so
// companion packages like this one can read a filter's contents without
// the filter type needing to know anything about serialization formats.
type Accessor[T xorfilter.Cell] interface {
	Seed() uint64
	BlockLength() uint64
	Cells() []T
}

// Encode writes a filter's persisted layout to w: seed (u64 LE),
// blockLength (u64 LE), then 3*blockLength fingerprint cells (LE, cell
// width determined by T). There is no magic number and no version byte:
// per the filter's contract, the caller is responsible for framing this
// blob however its own format requires.
func Encode[T xorfilter.Cell](w io.Writer, f Accessor[T]) error {
	var header [16]byte
	binary.LittleEndian.PutUint64(header[0:8], f.Seed())
	binary.LittleEndian.PutUint64(header[8:16], f.BlockLength())
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("filterio: write header: %w", err)
	}

	cells := f.Cells()
	var zero T
	switch any(zero).(type) {
	case uint8:
		buf := make([]byte, len(cells))
		for i, c := range cells {
			buf[i] = byte(c)
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("filterio: write cells: %w", err)
		}
	case uint16:
		buf := make([]byte, 2*len(cells))
		for i, c := range cells {
			binary.LittleEndian.PutUint16(buf[2*i:], uint16(c))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("filterio: write cells: %w", err)
		}
	default:
		return fmt.Errorf("filterio: unsupported cell type %T", zero)
	}

	return nil
}

// Decode reads a persisted layout produced by Encode and returns the
// seed, block length, and fingerprint cells it contained. The caller
// reconstructs the concrete xorfilter.Filter[T] from these (xorfilter
// deliberately exposes no "load raw bytes" constructor, to keep
// serialization format choices entirely in this package).
func Decode[T xorfilter.Cell](r io.Reader) (seed, blockLength uint64, cells []T, err error) {
	var header [16]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, 0, nil, fmt.Errorf("filterio: read header: %w", err)
	}
	seed = binary.LittleEndian.Uint64(header[0:8])
	blockLength = binary.LittleEndian.Uint64(header[8:16])

	count := 3 * blockLength
	var zero T
	switch any(zero).(type) {
	case uint8:
		buf := make([]byte, count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, 0, nil, fmt.Errorf("filterio: read cells: %w", err)
		}
		cells = make([]T, count)
		for i, b := range buf {
			cells[i] = T(b)
		}
	case uint16:
		buf := make([]byte, 2*count)
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, 0, nil, fmt.Errorf("filterio: read cells: %w", err)
		}
		cells = make([]T, count)
		for i := range cells {
			cells[i] = T(binary.LittleEndian.Uint16(buf[2*i:]))
		}
	default:
		return 0, 0, nil, fmt.Errorf("filterio: unsupported cell type %T", zero)
	}

	return seed, blockLength, cells, nil
}
