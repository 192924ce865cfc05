package xorfilter

// Hash kernel: a Murmur3-style finalizer mixes a key with the filter's
// seed, and the resulting 64-bit hash is sliced into three near-independent
// 32-bit pieces that `reduce` maps into the filter's three slot blocks.
// The exact derivation below is part of this filter's wire-compatible
// behavior and must not be changed independently of the persisted layout.

// mixSplit folds a key and a seed into a single avalanched 64-bit hash.
func mixSplit(key, seed uint64) uint64 {
	return murmur64(key + seed)
}

// murmur64 is the standard Murmur3 64-bit finalizer.
func murmur64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

// rotl64 rotates n left by c bits, c taken mod 64.
func rotl64(n uint64, c uint) uint64 {
	return (n << (c & 63)) | (n >> ((-c) & 63))
}

// reduce maps a 32-bit hash into [0, n) without the bias or cost of a
// modulo. See Lemire, "A fast alternative to the modulo reduction".
func reduce(hash uint32, n uint64) uint64 {
	return (uint64(hash) * n) >> 32
}

// hashes bundles the full 64-bit hash alongside the three slot indices
// derived from it, so the peeling phase never needs to recompute the hash
// once it already has it from a xorset's xormask.
type hashes struct {
	h  uint64
	h0 uint64
	h1 uint64
	h2 uint64
}

// hashesForKey derives the hash and three slot indices for a key under the
// given seed and block length.
func hashesForKey(key, seed, blockLength uint64) hashes {
	return hashesForHash(mixSplit(key, seed), blockLength)
}

// hashesForHash recomputes only the three slot indices from an already
// computed hash. Used on the reverse (peel/assign) passes, where the
// xormask already carries the hash and re-mixing the original key would be
// wasted work.
func hashesForHash(h, blockLength uint64) hashes {
	r0 := uint32(h)
	r1 := uint32(rotl64(h, 21))
	r2 := uint32(rotl64(h, 42))
	return hashes{
		h:  h,
		h0: reduce(r0, blockLength),
		h1: reduce(r1, blockLength) + blockLength,
		h2: reduce(r2, blockLength) + 2*blockLength,
	}
}

// truncate narrows a 64-bit hash to a fingerprint of width T by xoring its
// two halves, then truncating to T's bit width via the Go conversion rules.
func truncate[T Cell](h uint64) T {
	return T(h ^ (h >> 32))
}

// splitmix64 is a small, fast, full-period deterministic RNG used only to
// diversify the filter's seed across retry attempts. It is not
// cryptographically strong and is not meant to be.
type splitmix64 struct {
	state uint64
}

// next advances the generator and returns its next 64-bit output.
func (s *splitmix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
