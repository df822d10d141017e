// Package stats implements Statistics (spec.md §4.G): per-network
// aggregates over length, sinuosity, size-class composition, and an
// external floodplain join.
//
// Purpose:
//   - Reduce each Functional Network's member flowlines to one Report.
//   - Keep aggregation a single deterministic left-to-right pass per
//     network, mirroring matrix/impl_statistics.go's fixed-traversal
//     accumulation style (Covariance, Correlation) rather than a
//     two-pass/streaming design.
//
// Determinism: members are walked in ascending id order (network.Network
// already sorts Members), so floating-point accumulation order - and
// therefore the bit pattern of every sum - is identical across runs.
package stats

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/network"
)

// Report is one network's aggregate statistics (spec.md §4.G).
type Report struct {
	RootID                   int64
	TotalLengthKm            float64
	PerennialLengthKm        float64
	NumSegments              int
	SizeClassHistogram       map[flowline.SizeClass]int
	SinuosityLengthWeighted  float64
	FloodplainNaturalPct     float64
	FloodplainCatchmentCount int // catchments with floodplain data contributing to the pct above
}

// Compute aggregates one network's statistics by walking its members in
// the order network.Build already produced (ascending id).
func Compute(store *flowline.Store, net network.Network, floodplain FloodplainTable) (Report, error) {
	report := Report{
		RootID:             net.RootID,
		NumSegments:        len(net.Members),
		SizeClassHistogram: make(map[flowline.SizeClass]int),
	}

	var sinuosityLengthSum, naturalSum, totalSum float64
	for _, id := range net.Members {
		f, err := store.Get(id)
		if err != nil {
			return Report{}, err
		}

		lengthKm := f.Length / 1000
		report.TotalLengthKm += lengthKm
		if f.Perennial {
			report.PerennialLengthKm += lengthKm
		}
		report.SizeClassHistogram[f.SizeClass]++
		sinuosityLengthSum += f.Sinuosity * f.Length

		if floodplain == nil {
			continue
		}
		if natural, total, ok := floodplain.Lookup(f.ID); ok {
			naturalSum += natural
			totalSum += total
			report.FloodplainCatchmentCount++
		}
	}

	if report.TotalLengthKm > 0 {
		// sinuosityLengthSum was accumulated in meters; TotalLengthKm is in
		// km, so divide by the meter-denominated total length instead.
		report.SinuosityLengthWeighted = sinuosityLengthSum / (report.TotalLengthKm * 1000)
	}
	if totalSum > 0 {
		report.FloodplainNaturalPct = naturalSum / totalSum * 100
	}

	return report, nil
}

// ComputeAll runs Compute sequentially over every network, in input order.
func ComputeAll(store *flowline.Store, networks []network.Network, floodplain FloodplainTable) ([]Report, error) {
	reports := make([]Report, len(networks))
	for i, net := range networks {
		r, err := Compute(store, net, floodplain)
		if err != nil {
			return nil, err
		}
		reports[i] = r
	}

	return reports, nil
}

// ComputeAllParallel fans Compute out across disjoint networks using an
// errgroup bounded to workers concurrent goroutines (spec.md §5: "the
// Join Table and Store are immutable for the duration, and each worker
// writes to its own output slot"). store and floodplain must not be
// mutated by any caller for the duration of the call.
func ComputeAllParallel(ctx context.Context, store *flowline.Store, networks []network.Network, floodplain FloodplainTable, workers int) ([]Report, error) {
	reports := make([]Report, len(networks))

	g, _ := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, net := range networks {
		i, net := i, net
		g.Go(func() error {
			r, err := Compute(store, net, floodplain)
			if err != nil {
				return err
			}
			reports[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
