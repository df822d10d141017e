// Package pipeline is the single orchestrator that wires the Flowline
// Store / Join Table ingestion, Region Merger, Snapper, Cutter, Network
// Builder, and Statistics stages into one call, the way builder.BuildGraph
// is the one public entry point composing core.Graph construction
// (builder/api.go): resolve configuration once, run stages strictly in
// order, wrap each stage's error with its own context, no partial
// cleanup on failure.
package pipeline

import (
	"context"
	"fmt"

	"github.com/katalvlaran/hydronet/config"
	"github.com/katalvlaran/hydronet/cut"
	"github.com/katalvlaran/hydronet/diag"
	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/hyerrors"
	"github.com/katalvlaran/hydronet/idgen"
	"github.com/katalvlaran/hydronet/join"
	"github.com/katalvlaran/hydronet/network"
	"github.com/katalvlaran/hydronet/region"
	"github.com/katalvlaran/hydronet/snap"
	"github.com/katalvlaran/hydronet/stats"
)

// BasinInput is one region's raw ingestion input. CRS must match every
// other basin's CRS and the run's expected CRS, or ingestion fails with
// hyerrors.ErrCrsMismatch (spec.md §6). An empty CRS, on a basin or on
// Input, counts as unspecified and is not compared.
type BasinInput struct {
	Flowlines flowline.Reader
	Joins     join.Reader
	CRS       string
}

// Input is everything one pipeline run needs.
type Input struct {
	Basins       []BasinInput
	Barriers     []snap.Barrier
	CutPredicate snap.CutPredicate // nil defaults to snap.AllBarriersCut
	Floodplain   stats.FloodplainTable
	CRS          string
}

// BarrierNetworkRow is one row of the barrier-to-network output table
// (spec.md §6): "barrier_id, upstream_network_id, downstream_network_id,
// snap_dist, candidates_within_100m, name_match, at_endpoint".
//
// A barrier that never cut the network (off-network, or excluded by
// CutPredicate) carries zero-valued network ids.
type BarrierNetworkRow struct {
	BarrierID            int64
	UpstreamNetworkID    int64
	DownstreamNetworkID  int64
	SnapDist             float64
	CandidatesWithin100m int
	NameMatch            snap.NameMatch
	AtEndpoint           bool
}

// Result is the full output of one pipeline run.
type Result struct {
	Store           *flowline.Store
	Joins           *join.Table
	Networks        []network.Network
	BarrierNetworks []BarrierNetworkRow
	Stats           []stats.Report
	Diagnostics     *diag.Diagnostics
}

// Run executes the pipeline end to end. A fatal error from any stage
// aborts the run immediately and returns a nil Result; everything
// non-fatal accumulates in Result.Diagnostics instead.
func Run(ctx context.Context, in Input, cfg config.Config) (*Result, error) {
	basins, err := loadBasins(in.Basins, in.CRS, cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: ingest: %w", err)
	}

	store, joins, diagnostics, err := region.Merge(basins)
	if err != nil {
		return nil, fmt.Errorf("pipeline: merge: %w", err)
	}
	if cfg.MaxRows > 0 && store.Len() > cfg.MaxRows {
		return nil, fmt.Errorf("pipeline: merge: %w: %d rows exceeds budget of %d", hyerrors.ErrOutOfMemory, store.Len(), cfg.MaxRows)
	}

	if err := join.Validate(joins, func(id int64) bool { _, err := store.Get(id); return err == nil }); err != nil {
		return nil, fmt.Errorf("pipeline: validate joins: %w", err)
	}

	snapOpts := snap.Options{
		MaxSnapDist:             cfg.MaxSnapDist,
		EndpointEpsilon:         cfg.EndpointEpsilon,
		NameSimilarityThreshold: cfg.NameSimilarityThreshold,
		AmbiguousSnapEpsilon:    cfg.AmbiguousSnapEpsilon,
	}
	snapped, err := snap.SnapAll(store, in.Barriers, snapOpts, func(barrierID int64) {
		diagnostics.Add(diag.KindAmbiguousSnap, barrierID, "barrier %d has tied nearest-flowline candidates", barrierID)
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: snap: %w", err)
	}

	cutPredicate := in.CutPredicate
	if cutPredicate == nil {
		cutPredicate = snap.AllBarriersCut
	}

	var toCut []snap.Barrier
	for _, b := range snapped {
		if b.OffNetwork() {
			diagnostics.Add(diag.KindOffNetworkBarrier, b.ID, "barrier %d found no flowline within max_snap_dist", b.ID)

			continue
		}
		if cutPredicate(b) {
			toCut = append(toCut, b)
		}
	}

	maxExisting := int64(0)
	for _, id := range store.IDs() {
		if id > maxExisting {
			maxExisting = id
		}
	}
	counter := idgen.NewCounter(cfg.IDCounterBase, maxExisting, func(id int64) bool {
		_, err := store.Get(id)

		return err == nil
	})

	mappings, err := cut.Cut(store, joins, counter, toCut)
	if err != nil {
		return nil, fmt.Errorf("pipeline: cut: %w", err)
	}

	networks, err := network.Build(store.IDs(), joins, mappings, func(id int64) bool {
		f, err := store.Get(id)

		return err == nil && f.Loop
	}, diagnostics)
	if err != nil {
		return nil, fmt.Errorf("pipeline: network: %w", err)
	}

	var reports []stats.Report
	if cfg.StatsWorkers > 1 {
		reports, err = stats.ComputeAllParallel(ctx, store, networks, in.Floodplain, cfg.StatsWorkers)
	} else {
		reports, err = stats.ComputeAll(store, networks, in.Floodplain)
	}
	if err != nil {
		return nil, fmt.Errorf("pipeline: stats: %w", err)
	}

	return &Result{
		Store:           store,
		Joins:           joins,
		Networks:        networks,
		BarrierNetworks: barrierNetworkRows(snapped, mappings, networks),
		Stats:           reports,
		Diagnostics:     diagnostics,
	}, nil
}

func loadBasins(inputs []BasinInput, expectedCRS string, cfg config.Config) ([]region.Basin, error) {
	basins := make([]region.Basin, 0, len(inputs))
	wantCRS := expectedCRS
	for i, in := range inputs {
		if wantCRS == "" {
			wantCRS = in.CRS
		}
		if wantCRS != "" && in.CRS != "" && in.CRS != wantCRS {
			return nil, fmt.Errorf("basin %d: %w: got %q, want %q", i, hyerrors.ErrCrsMismatch, in.CRS, wantCRS)
		}

		store, err := flowline.LoadAll(in.Flowlines)
		if err != nil {
			return nil, fmt.Errorf("basin %d: %w", i, err)
		}
		if cfg.MaxRows > 0 && store.Len() > cfg.MaxRows {
			return nil, fmt.Errorf("basin %d: %w: %d rows exceeds budget of %d", i, hyerrors.ErrOutOfMemory, store.Len(), cfg.MaxRows)
		}

		table, err := join.LoadAll(in.Joins)
		if err != nil {
			return nil, fmt.Errorf("basin %d: %w", i, err)
		}

		basins = append(basins, region.Basin{Store: store, Joins: table})
	}

	return basins, nil
}

func barrierNetworkRows(snapped []snap.Barrier, mappings []cut.Mapping, networks []network.Network) []BarrierNetworkRow {
	mappingByBarrier := make(map[int64]cut.Mapping, len(mappings))
	for _, m := range mappings {
		mappingByBarrier[m.BarrierID] = m
	}

	idToNetwork := make(map[int64]int64)
	for _, n := range networks {
		for _, member := range n.Members {
			idToNetwork[member] = n.RootID
		}
	}

	rows := make([]BarrierNetworkRow, len(snapped))
	for i, b := range snapped {
		row := BarrierNetworkRow{
			BarrierID:            b.ID,
			SnapDist:             b.SnapDist,
			CandidatesWithin100m: b.CandidatesWithin100m,
			NameMatch:            b.NameMatchResult,
			AtEndpoint:           b.AtEndpoint,
		}
		if m, ok := mappingByBarrier[b.ID]; ok {
			row.UpstreamNetworkID = idToNetwork[m.UpstreamID]
			row.DownstreamNetworkID = idToNetwork[m.DownstreamID]
		}
		rows[i] = row
	}

	return rows
}
