// Package config centralizes the pipeline-wide tunables enumerated in the
// spec (max_snap_dist, endpoint_epsilon, name_similarity_threshold,
// id_counter_base) plus the ambient logging/concurrency knobs the rest of
// the module needs. It follows the same functional-options shape as
// builder.BuilderOption/builderConfig: a struct with sane defaults,
// mutated in order by publicly constructible Option values.
package config

import (
	"log/slog"
	"os"
)

// Option customizes a Config before the pipeline runs.
//
// As a rule, option constructors never panic at runtime and ignore
// out-of-range/nil inputs rather than rejecting them at apply time. The
// resolved Config is used as is; no further validation pass runs on it.
type Option func(cfg *Config)

// Config holds every tunable parameter the core pipeline consults.
//
// Not safe for concurrent mutation; build once via New and treat the
// result as read-only for the remainder of a pipeline run.
type Config struct {
	// MaxSnapDist is the upper bound, in meters, for Snapper.nearest
	// queries. Barriers beyond this distance from every flowline are
	// classified off_network.
	MaxSnapDist float64

	// EndpointEpsilon is the distance, in meters, within which a snap
	// position collapses onto the nearer flowline endpoint instead of
	// producing a near-zero-length cut product.
	EndpointEpsilon float64

	// NameSimilarityThreshold is the normalized token-set similarity
	// (0-1) at or above which a barrier/flowline name pair is classified
	// fuzzy rather than none.
	NameSimilarityThreshold float64

	// IDCounterBase is the first id minted for cut products; must exceed
	// every vendor NHDPlusID present in the region.
	IDCounterBase int64

	// AmbiguousSnapEpsilon is the distance, in meters, within which two
	// candidate flowlines are considered tied for nearest (§7
	// AmbiguousSnap).
	AmbiguousSnapEpsilon float64

	// BorderStitchEpsilon records the distance, in meters, within which two
	// basin-boundary endpoints count as coincident (§4.C). The Region
	// Merger does not read this field; it always uses region.BorderEpsilon.
	BorderStitchEpsilon float64

	// CutMergeEpsilon records the distance, in meters, within which two
	// consecutive cut positions on one flowline are merged into a single
	// cut (§4.E step 3). The Cutter does not read this field; it always
	// uses cut.MergeEpsilon.
	CutMergeEpsilon float64

	// StatsWorkers bounds the number of goroutines the Statistics stage
	// uses when aggregating disjoint networks in parallel. 0 or 1 means
	// sequential.
	StatsWorkers int

	// Logger is an ambient structured logger carried with the Config. No
	// pipeline stage writes to it; fatal errors are always returned as
	// error values and non-fatal ones go to diag.Diagnostics.
	Logger *slog.Logger

	// MaxRows bounds the total flowline count a single pipeline run will
	// hold in memory at once (spec.md §5: "fail fast with OutOfMemory
	// rather than swap"). 0 means unbounded.
	MaxRows int
}

// defaults mirror the values enumerated in the spec's configuration
// parameters section.
func defaults() Config {
	return Config{
		MaxSnapDist:             100,
		EndpointEpsilon:         1,
		NameSimilarityThreshold: 0.8,
		IDCounterBase:           0,
		AmbiguousSnapEpsilon:    0.1,
		BorderStitchEpsilon:     0.01,
		CutMergeEpsilon:         0.001,
		StatsWorkers:            1,
		Logger:                  slog.New(slog.NewTextHandler(os.Stderr, nil)),
		MaxRows:                 0,
	}
}

// New builds a Config from defaults, then applies opts left to right; a
// later option overrides an earlier one.
func New(opts ...Option) Config {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithMaxSnapDist overrides the snap search radius, in meters.
func WithMaxSnapDist(meters float64) Option {
	return func(cfg *Config) {
		if meters > 0 {
			cfg.MaxSnapDist = meters
		}
	}
}

// WithEndpointEpsilon overrides the endpoint-collapse threshold, in
// meters.
func WithEndpointEpsilon(meters float64) Option {
	return func(cfg *Config) {
		if meters >= 0 {
			cfg.EndpointEpsilon = meters
		}
	}
}

// WithNameSimilarityThreshold overrides the fuzzy-name acceptance
// threshold; values outside [0,1] are ignored.
func WithNameSimilarityThreshold(threshold float64) Option {
	return func(cfg *Config) {
		if threshold >= 0 && threshold <= 1 {
			cfg.NameSimilarityThreshold = threshold
		}
	}
}

// WithIDCounterBase overrides the first id minted for cut products.
func WithIDCounterBase(base int64) Option {
	return func(cfg *Config) {
		cfg.IDCounterBase = base
	}
}

// WithStatsWorkers overrides the Statistics stage's worker pool size.
func WithStatsWorkers(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.StatsWorkers = n
		}
	}
}

// WithLogger overrides the ambient structured logger; a nil logger is
// ignored so the default (stderr text handler) is kept.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// WithMaxRows overrides the pipeline's in-memory row-count budget; values
// below 0 are ignored (0 itself means unbounded and is accepted).
func WithMaxRows(n int) Option {
	return func(cfg *Config) {
		if n >= 0 {
			cfg.MaxRows = n
		}
	}
}
