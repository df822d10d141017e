// Package snap implements the Snapper (spec.md §4.D): given barrier
// points, it finds the nearest flowline, computes the snap position along
// it, and emits the QA heuristics (distance, candidate count, name
// agreement) spec.md §4.D requires.
package snap

import "github.com/paulmach/orb"

// BarrierKind is the tagged variant spec.md §9 calls for ("represented as
// a tagged variant ... downstream logic ... expressed by a predicate
// supplied at pipeline configuration time, not by subclassing").
type BarrierKind string

// Known barrier kinds.
const (
	KindDam          BarrierKind = "dam"
	KindWaterfall    BarrierKind = "waterfall"
	KindSmallBarrier BarrierKind = "small_barrier"
)

// NameMatch classifies how well a barrier's name agrees with its target
// flowline's gnis_name (spec.md §4.D step 4).
type NameMatch string

// Name-match classes.
const (
	NameExact NameMatch = "exact"
	NameFuzzy NameMatch = "fuzzy"
	NameNone  NameMatch = "none"
)

// Barrier is a point obstruction on the network (spec.md §3). Attrs
// carries opaque caller attributes through the pipeline untouched.
type Barrier struct {
	ID       int64
	Kind     BarrierKind
	X, Y     float64
	GNISName string
	Attrs    map[string]interface{}

	// Fields populated by Snap.
	Snapped               bool
	SnappedX, SnappedY    float64
	TargetFlowlineID      int64
	SnapDist              float64
	CandidatesWithin100m  int
	NameMatchResult       NameMatch
	AtEndpoint            bool
	Measure               float64 // position along target flowline, from upstream end
}

// Point returns the barrier's unsnapped query point.
func (b Barrier) Point() orb.Point {
	return orb.Point{b.X, b.Y}
}

// OffNetwork reports whether snapping found no candidate flowline within
// the configured search radius; an off-network barrier is excluded from
// cutting (spec.md §4.D step 2).
func (b Barrier) OffNetwork() bool {
	return !b.Snapped
}

// CutPredicate decides whether a given barrier participates in network
// cutting for a particular analysis; spec.md §9 specifies this as a
// predicate supplied by the caller rather than a type hierarchy.
type CutPredicate func(Barrier) bool

// AllBarriersCut is the default CutPredicate: every on-network barrier
// cuts the network, regardless of kind.
func AllBarriersCut(Barrier) bool { return true }

// KindCutPredicate returns a CutPredicate matching only the given kinds.
func KindCutPredicate(kinds ...BarrierKind) CutPredicate {
	set := make(map[BarrierKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}

	return func(b Barrier) bool {
		_, ok := set[b.Kind]

		return ok
	}
}
