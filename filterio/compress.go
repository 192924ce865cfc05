package filterio

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor wraps an already-encoded filter blob (the output of Encode)
// with an optional compression pass, for callers persisting filters to
// disk or over the network who want smaller blobs than the raw
// little-endian layout.
type Compressor interface {
	// Encode compresses data, returning a new slice.
	Encode(data []byte) ([]byte, error)
	// Decode decompresses data previously produced by Encode.
	Decode(data []byte) ([]byte, error)
	// Extension is a filename suffix convention for blobs this
	// Compressor produced, or "" for None.
	Extension() string
}

// None is a no-op Compressor: it returns its input unchanged, with no
// copy. Useful as the default so callers can make compression a
// configuration toggle rather than a code-path toggle.
func None() Compressor { return noneCompressor{} }

type noneCompressor struct{}

func (noneCompressor) Encode(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Decode(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Extension() string                  { return "" }

// S2 compresses with klauspost/compress/s2, a fast Snappy-compatible
// codec well suited to the mostly-incompressible, high-entropy
// fingerprint bytes a xor filter is made of: it backs off to near
// zero-overhead storage rather than wasting cycles when a blob doesn't
// compress.
func S2() Compressor { return s2Compressor{} }

type s2Compressor struct{}

func (s2Compressor) Encode(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Compressor) Decode(data []byte) ([]byte, error) {
	decoded, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("filterio: s2 decode: %w", err)
	}
	return decoded, nil
}

func (s2Compressor) Extension() string { return ".s2" }

// Zstd compresses with klauspost/compress/zstd at the given level
// (zstd.SpeedFastest=1 through zstd.SpeedBestCompression=4). Zstd trades
// more CPU than S2 for a better ratio; worthwhile when filters are built
// once and shipped many times.
func Zstd(level int) Compressor {
	return zstdCompressor{level: zstd.EncoderLevel(level)}
}

type zstdCompressor struct {
	level zstd.EncoderLevel
}

func (z zstdCompressor) Encode(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	if err != nil {
		return nil, fmt.Errorf("filterio: zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (zstdCompressor) Decode(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("filterio: zstd decoder: %w", err)
	}
	defer dec.Close()
	decoded, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("filterio: zstd decode: %w", err)
	}
	return decoded, nil
}

func (zstdCompressor) Extension() string { return ".zst" }

// LZ4 compresses with pierrec/lz4's block-level API: single-shot, with
// no lz4 frame, only the 5-byte header (tag byte and original length)
// this Compressor prepends; appropriate for filter blobs that are small
// enough to compress in one call.
func LZ4() Compressor { return lz4Compressor{} }

type lz4Compressor struct{}

func (lz4Compressor) Encode(data []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf, nil)
	if err != nil {
		return nil, fmt.Errorf("filterio: lz4 compress: %w", err)
	}
	if n == 0 {
		// Incompressible input: lz4 signals this by writing nothing.
		// Fall back to storing the raw bytes with a length prefix so
		// Decode can tell the two cases apart.
		return encodeIncompressible(data), nil
	}
	return encodeCompressed(buf[:n], len(data)), nil
}

func (lz4Compressor) Decode(data []byte) ([]byte, error) {
	compressed, rawLen, isRaw := decodeLZ4Header(data)
	if isRaw {
		return compressed, nil
	}
	dst := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(compressed, dst)
	if err != nil {
		return nil, fmt.Errorf("filterio: lz4 decompress: %w", err)
	}
	return dst[:n], nil
}

func (lz4Compressor) Extension() string { return ".lz4" }

// encodeCompressed/encodeIncompressible/decodeLZ4Header frame an LZ4
// block with a one-byte tag and a little-endian uint32 original length,
// since lz4's block API (unlike its frame API) carries no length or
// compressibility marker of its own.
func encodeCompressed(block []byte, rawLen int) []byte {
	out := make([]byte, 5+len(block))
	out[0] = 1
	putUint32(out[1:5], uint32(rawLen))
	copy(out[5:], block)
	return out
}

func encodeIncompressible(data []byte) []byte {
	out := make([]byte, 5+len(data))
	out[0] = 0
	putUint32(out[1:5], uint32(len(data)))
	copy(out[5:], data)
	return out
}

func decodeLZ4Header(data []byte) (payload []byte, rawLen int, isRaw bool) {
	tag := data[0]
	rawLen = int(getUint32(data[1:5]))
	return data[5:], rawLen, tag == 0
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
