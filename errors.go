package xorfilter

import "errors"

// ErrAllocationFailed is returned by New for a negative size, and by
// Populate when a WithMaxAttempts cap is reached without an acyclic
// assignment. A slot array too large to allocate is not reported through
// this error.
var ErrAllocationFailed = errors.New("xorfilter: allocation failed")

// ErrFilterTooSmall is returned by Populate when the key set has more keys
// than the filter has slots (3*BlockLength). Such a filter could never
// succeed, and a hang is a worse failure mode than a cheap upfront error.
// A key set that fits in the slots but exceeds the count the filter was
// sized for with New is not detected by this check.
var ErrFilterTooSmall = errors.New("xorfilter: filter too small for key set")
