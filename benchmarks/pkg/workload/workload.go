// Package workload generates deterministic pseudo-random key sets for
// xorfilter benchmarks and property tests.
package workload

import "math/rand/v2"

// RandomKeys returns n distinct uint64 keys generated deterministically
// from seed. A membership filter has no notion of access-frequency skew,
// so unlike a cache workload generator this draws uniformly rather than
// from a Zipfian distribution; the seeded PCG generator itself is the
// part worth keeping deterministic across runs.
func RandomKeys(n int, seed uint64) []uint64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	seen := make(map[uint64]struct{}, n)
	keys := make([]uint64, 0, n)
	for len(keys) < n {
		k := rng.Uint64()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
