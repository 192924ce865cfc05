// Command xorfilter-bench measures build time, memory footprint, and
// empirical false-positive rate for xorfilter's 8-bit and 16-bit
// variants.
package main

import (
	"flag"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/codeGROOVE-dev/xorfilter"
	"github.com/codeGROOVE-dev/xorfilter/benchmarks/pkg/workload"
)

func main() {
	size := flag.Int("size", 1_000_000, "number of keys to populate")
	probes := flag.Int("probes", 1_000_000, "number of non-member keys to probe for false positives")
	bits := flag.Int("bits", 8, "fingerprint width: 8 or 16")
	seed := flag.Uint64("seed", 42, "workload RNG seed")
	flag.Parse()

	runtime.GC()
	debug.FreeOSMemory()

	keys := workload.RandomKeys(*size, *seed)
	probeKeys := workload.RandomKeys(*probes, *seed+1)

	switch *bits {
	case 8:
		runBench[uint8](keys, probeKeys, "8")
	case 16:
		runBench[uint16](keys, probeKeys, "16")
	default:
		fmt.Printf(`{"error":"unsupported -bits value %d, want 8 or 16"}`+"\n", *bits)
	}
}

func runBench[T xorfilter.Cell](keys, probeKeys []uint64, width string) {
	f, err := xorfilter.New[T](len(keys))
	if err != nil {
		fmt.Printf(`{"error":%q}`+"\n", err.Error())
		return
	}

	start := time.Now()
	if err := f.Populate(keys); err != nil {
		fmt.Printf(`{"error":%q}`+"\n", err.Error())
		return
	}
	buildTime := time.Since(start)

	falsePositives := 0
	for _, k := range probeKeys {
		if f.Contains(k) {
			falsePositives++
		}
	}

	runtime.GC()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fpr := float64(falsePositives) / float64(len(probeKeys))
	fmt.Printf(`{"width":%q, "keys":%d, "size_bytes":%d, "build_ms":%.2f, "probes":%d, "false_positives":%d, "fpr":%.6f, "heap_alloc":%d}`+"\n",
		width, len(keys), f.SizeInBytes(), float64(buildTime.Microseconds())/1000.0, len(probeKeys), falsePositives, fpr, mem.Alloc)
}
