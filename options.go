package xorfilter

import "log/slog"

// populateConfig holds the tunables for Populate.
type populateConfig struct {
	maxAttempts int // 0 means unbounded
	rngSeed     uint64
	logger      *slog.Logger
}

func defaultPopulateConfig() *populateConfig {
	return &populateConfig{
		rngSeed: 1, // matches the reference implementation's counter start
		logger:  slog.Default(),
	}
}

// PopulateOption configures a call to Populate.
type PopulateOption func(*populateConfig)

// WithMaxAttempts caps the number of seed-retry attempts Populate will
// make before giving up and returning an error. A correctly sized filter
// succeeds in O(1) expected attempts, so the default (0) leaves this
// unbounded; pathologically undersized filters or degenerate key
// distributions can otherwise loop forever, so callers that need a hard
// ceiling can set one explicitly.
func WithMaxAttempts(n int) PopulateOption {
	return func(c *populateConfig) {
		c.maxAttempts = n
	}
}

// WithRNGSeed sets the initial splitmix64 counter used to diversify the
// filter's seed across retry attempts. The default (1) reproduces the
// reference implementation's behavior and gives deterministic output for
// a given key sequence. Override only for reproducible benchmarking with
// an externally supplied seed source.
func WithRNGSeed(seed uint64) PopulateOption {
	return func(c *populateConfig) {
		c.rngSeed = seed
	}
}

// WithLogger sets the logger Populate uses to report retry attempts at
// debug level. Defaults to slog.Default().
func WithLogger(l *slog.Logger) PopulateOption {
	return func(c *populateConfig) {
		c.logger = l
	}
}
