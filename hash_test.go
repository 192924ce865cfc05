package xorfilter

import "testing"

func TestMurmur64_Deterministic(t *testing.T) {
	got := murmur64(12345)
	want := murmur64(12345)
	if got != want {
		t.Errorf("murmur64 not deterministic: %d != %d", got, want)
	}
}

func TestMurmur64_Avalanche(t *testing.T) {
	// A one-bit input change should flip roughly half the output bits.
	a := murmur64(0)
	b := murmur64(1)
	diff := a ^ b
	bits := 0
	for diff != 0 {
		bits += int(diff & 1)
		diff >>= 1
	}
	if bits < 16 || bits > 48 {
		t.Errorf("murmur64(0) vs murmur64(1) differ in %d bits, want roughly 32", bits)
	}
}

func TestRotl64(t *testing.T) {
	tests := []struct {
		n    uint64
		c    uint
		want uint64
	}{
		{0x1, 0, 0x1},
		{0x1, 1, 0x2},
		{0x1, 64, 0x1}, // full rotation is a no-op
		{0x8000000000000000, 1, 0x1},
	}
	for _, tc := range tests {
		if got := rotl64(tc.n, tc.c); got != tc.want {
			t.Errorf("rotl64(%#x, %d) = %#x, want %#x", tc.n, tc.c, got, tc.want)
		}
	}
}

func TestReduce_Bounds(t *testing.T) {
	n := uint64(1000)
	for _, h := range []uint32{0, 1, 0xFFFFFFFF, 0x80000000} {
		got := reduce(h, n)
		if got >= n {
			t.Errorf("reduce(%#x, %d) = %d, want < %d", h, n, got, n)
		}
	}
}

func TestReduce_ZeroHashIsZero(t *testing.T) {
	if got := reduce(0, 1000); got != 0 {
		t.Errorf("reduce(0, n) = %d, want 0", got)
	}
}

func TestHashesForKey_BlocksAreDisjoint(t *testing.T) {
	blockLength := uint64(100)
	hs := hashesForKey(42, 7, blockLength)

	if hs.h0 >= blockLength {
		t.Errorf("h0 = %d out of block 0 range [0, %d)", hs.h0, blockLength)
	}
	if hs.h1 < blockLength || hs.h1 >= 2*blockLength {
		t.Errorf("h1 = %d out of block 1 range [%d, %d)", hs.h1, blockLength, 2*blockLength)
	}
	if hs.h2 < 2*blockLength || hs.h2 >= 3*blockLength {
		t.Errorf("h2 = %d out of block 2 range [%d, %d)", hs.h2, 2*blockLength, 3*blockLength)
	}
}

func TestHashesForHash_MatchesHashesForKey(t *testing.T) {
	seed := uint64(99)
	blockLength := uint64(50)
	key := uint64(123456)

	fromKey := hashesForKey(key, seed, blockLength)
	fromHash := hashesForHash(mixSplit(key, seed), blockLength)

	if fromKey != fromHash {
		t.Errorf("hashesForKey = %+v, hashesForHash = %+v, want equal", fromKey, fromHash)
	}
}

func TestTruncate_Widths(t *testing.T) {
	h := uint64(0x0102030405060708)

	fp8 := truncate[uint8](h)
	fp16 := truncate[uint16](h)

	want := h ^ (h >> 32)
	if fp8 != uint8(want) {
		t.Errorf("truncate[uint8](%#x) = %#x, want %#x", h, fp8, uint8(want))
	}
	if fp16 != uint16(want) {
		t.Errorf("truncate[uint16](%#x) = %#x, want %#x", h, fp16, uint16(want))
	}
}

func TestSplitmix64_Deterministic(t *testing.T) {
	a := splitmix64{state: 1}
	b := splitmix64{state: 1}

	for i := 0; i < 10; i++ {
		av, bv := a.next(), b.next()
		if av != bv {
			t.Fatalf("splitmix64 outputs diverged at step %d: %d != %d", i, av, bv)
		}
	}
}

func TestSplitmix64_FirstOutputIsNotCounter(t *testing.T) {
	s := splitmix64{state: 1}
	if got := s.next(); got == 1 {
		t.Error("first splitmix64 output should not equal the raw counter seed")
	}
}
