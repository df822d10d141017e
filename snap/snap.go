package snap

import (
	"github.com/paulmach/orb"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/geomutil"
)

// Options configures a Snapper run with the three spec.md §6 parameters
// that bear on snapping, plus the AmbiguousSnap tie tolerance.
type Options struct {
	MaxSnapDist             float64
	EndpointEpsilon         float64
	NameSimilarityThreshold float64
	AmbiguousSnapEpsilon    float64
}

// Snap projects p onto the nearest flowline in store and computes the QA
// heuristics of spec.md §4.D. ambiguous is true when two or more
// candidates are tied within opts.AmbiguousSnapEpsilon of each other and
// both within opts.MaxSnapDist (spec.md §7 AmbiguousSnap); the barrier is
// still snapped to the nearest (ascending-distance, then ascending-id)
// candidate, per spec.md §4.D's determinism rule.
func Snap(store *flowline.Store, b Barrier, opts Options) (Barrier, bool, error) {
	out := b

	candidates := store.Nearest(b.Point(), opts.MaxSnapDist, 0)
	out.CandidatesWithin100m = countWithin(store, b.Point(), 100)

	if len(candidates) == 0 {
		out.Snapped = false

		return out, false, nil
	}

	best := candidates[0]
	f, err := store.Get(best.ID)
	if err != nil {
		return out, false, err
	}

	proj := geomutil.Project(f.Geometry, b.Point())

	out.Snapped = true
	out.TargetFlowlineID = f.ID
	out.SnapDist = proj.Distance
	out.SnappedX, out.SnappedY = proj.Point[0], proj.Point[1]
	out.Measure = proj.Measure
	out.NameMatchResult = matchName(b.GNISName, f.GNISName, opts.NameSimilarityThreshold)

	length := geomutil.Length(f.Geometry)
	if out.Measure < opts.EndpointEpsilon {
		out.AtEndpoint = true
		out.Measure = 0
		out.SnappedX, out.SnappedY = f.UpstreamEnd()[0], f.UpstreamEnd()[1]
	} else if length-out.Measure < opts.EndpointEpsilon {
		out.AtEndpoint = true
		out.Measure = length
		out.SnappedX, out.SnappedY = f.DownstreamEnd()[0], f.DownstreamEnd()[1]
	}

	ambiguous := len(candidates) > 1 && candidates[1].Distance-best.Distance <= opts.AmbiguousSnapEpsilon

	return out, ambiguous, nil
}

func countWithin(store *flowline.Store, p orb.Point, radius float64) int {
	return len(store.Nearest(p, radius, 0))
}

// SnapAll snaps every barrier in barriers against store, in input order,
// returning the snapped barriers (in the same order as input) and recording
// AmbiguousSnap diagnostics for any ambiguous snap via the record callback.
func SnapAll(store *flowline.Store, barriers []Barrier, opts Options, record func(ambiguousBarrierID int64)) ([]Barrier, error) {
	out := make([]Barrier, len(barriers))
	for i, b := range barriers {
		snapped, ambiguous, err := Snap(store, b, opts)
		if err != nil {
			return nil, err
		}
		out[i] = snapped
		if ambiguous && record != nil {
			record(b.ID)
		}
	}

	return out, nil
}
