package xorfilter

import "fmt"

// xorset is the per-slot accumulator used during peeling: the xor of the
// hashes of every key currently mapped to this slot, and how many keys
// that is. When count drops to exactly 1, xormask is precisely that one
// remaining key's hash, the invariant the whole algorithm rests on.
type xorset struct {
	xormask uint64
	count   uint64
}

// keyIndex records a peeled key's hash and the slot it was peeled from,
// in the order peeling discovered them. Populate replays this stack in
// reverse to assign fingerprints.
type keyIndex struct {
	hash  uint64
	index uint64
}

// Populate builds the filter from keys, which must be distinct: a
// duplicate key corrupts the peeling invariant by raising a slot's count
// by more than one for what should be a single recoverable entry, and
// Populate does not detect this case: checking would cost an O(n) set
// pass on every call, which is the caller's tradeoff to make, not this
// package's.
//
// The filter must already be allocated (via New) with enough capacity for
// len(keys). Populate returns ErrFilterTooSmall immediately only when
// len(keys) exceeds the filter's slot count (3*BlockLength); a key set
// that fits in the slots but is larger than the filter was sized for is
// not detected and can keep the retry loop running without end unless
// WithMaxAttempts is set.
//
// Populate is not safe to call concurrently on the same Filter, and must
// not be called again on a Filter already shared with readers: doing so
// races with any concurrent Contains.
func (f *Filter[T]) Populate(keys []uint64, opts ...PopulateOption) error {
	cfg := defaultPopulateConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	size := uint64(len(keys))
	arrayLength := f.blockLength * 3
	if size > arrayLength {
		return fmt.Errorf("xorfilter: Populate: %w: have %d slots, got %d keys", ErrFilterTooSmall, arrayLength, size)
	}

	rng := splitmix64{state: cfg.rngSeed}

	sets := make([]xorset, arrayLength)
	queue := make([]uint64, arrayLength)
	stack := make([]keyIndex, 0, size)

	for attempt := 1; ; attempt++ {
		if cfg.maxAttempts > 0 && attempt > cfg.maxAttempts {
			return fmt.Errorf("xorfilter: Populate: %w: no acyclic assignment found in %d attempts", ErrAllocationFailed, cfg.maxAttempts)
		}

		seed := rng.next()
		stack = stack[:0]
		clearSets(sets)

		for _, key := range keys {
			hs := hashesForKey(key, seed, f.blockLength)
			addToSet(sets, hs.h0, hs.h)
			addToSet(sets, hs.h1, hs.h)
			addToSet(sets, hs.h2, hs.h)
		}

		queueLen := 0
		for i, s := range sets {
			if s.count == 1 {
				queue[queueLen] = uint64(i)
				queueLen++
			}
		}

		for queueLen > 0 {
			queueLen--
			index := queue[queueLen]
			if sets[index].count == 0 {
				// Stale entry: a later peel already consumed this slot.
				continue
			}

			hash := sets[index].xormask
			stack = append(stack, keyIndex{hash: hash, index: index})

			hs := hashesForHash(hash, f.blockLength)
			queueLen = removeFromSet(sets, hs.h0, hash, queue, queueLen)
			queueLen = removeFromSet(sets, hs.h1, hash, queue, queueLen)
			queueLen = removeFromSet(sets, hs.h2, hash, queue, queueLen)
		}

		if uint64(len(stack)) == size {
			f.seed = seed
			break
		}

		cfg.logger.Debug("xorfilter: peeling attempt failed, retrying", "attempt", attempt, "keys", size)
	}

	// Re-populating an already-populated filter would otherwise leave
	// stale fingerprints in slots the new stack never touches; assign
	// requires those to read as zero; see assign's invariant comment.
	clear(f.fingerprints)
	assign(f.fingerprints, stack, f.blockLength)

	return nil
}

// clearSets resets the peeling scratch between retry attempts.
func clearSets(sets []xorset) {
	for i := range sets {
		sets[i] = xorset{}
	}
}

// addToSet folds a key's hash into the accumulator at index and bumps its
// count.
func addToSet(sets []xorset, index, hash uint64) {
	sets[index].xormask ^= hash
	sets[index].count++
}

// removeFromSet undoes addToSet for a slot being peeled away, and enqueues
// the slot if that leaves exactly one key behind. Returns the (possibly
// grown) queue length.
func removeFromSet(sets []xorset, index, hash uint64, queue []uint64, queueLen int) int {
	sets[index].xormask ^= hash
	sets[index].count--
	if sets[index].count == 1 {
		queue[queueLen] = index
		queueLen++
	}
	return queueLen
}

// assign replays the peel stack in reverse order, writing each slot's
// fingerprint as the xor of the key's own fingerprint with whatever its
// other two slots already hold. Because stack is processed in exactly the
// reverse of peeling order, those other two slots are always either
// already finalized by an earlier (later-peeled) entry or still zero,
// never a stale, about-to-be-overwritten value.
func assign[T Cell](fingerprints []T, stack []keyIndex, blockLength uint64) {
	for i := len(stack) - 1; i >= 0; i-- {
		ki := stack[i]
		hs := hashesForHash(ki.hash, blockLength)
		fingerprints[ki.index] = 0
		fingerprints[ki.index] = truncate[T](ki.hash) ^ fingerprints[hs.h0] ^ fingerprints[hs.h1] ^ fingerprints[hs.h2]
	}
}
