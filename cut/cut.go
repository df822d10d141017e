// Package cut implements the Cutter (spec.md §4.E): it splits flowlines
// at snapped barrier positions, mints new identifiers, and rewires joins
// so every barrier ends up lying on the boundary between two flowlines.
//
// Remove-one/insert-N plus adjacency rewiring follows the same shape as
// core's edge lifecycle (core/methods_edges.go: validate, mutate under
// lock, keep Edges()/ids deterministic), generalized from a single edge
// mutation to splitting a whole flowline's incident joins across K+1
// children.
package cut

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/geomutil"
	"github.com/katalvlaran/hydronet/idgen"
	"github.com/katalvlaran/hydronet/join"
	"github.com/katalvlaran/hydronet/snap"
)

// MergeEpsilon is the arc-length distance, in meters, within which two
// consecutive cut positions on one flowline are merged into a single cut
// (spec.md §4.E step 3).
const MergeEpsilon = 0.001

// Mapping records, for one barrier, the flowline ids immediately upstream
// and downstream of the cut point it produced (spec.md §4.E step 7's
// sidecar table).
type Mapping struct {
	BarrierID    int64
	UpstreamID   int64
	DownstreamID int64
}

// position is one on-flowline barrier placement queued for cutting.
type position struct {
	barrierID int64
	measure   float64
	atOrigin  bool // at_endpoint at the upstream end
	atTerm    bool // at_endpoint at the downstream end
}

// Cut splits every flowline in store that has at least one on-network,
// non-off-network barrier snapped to it, mints new ids via counter,
// rewires joins, and returns the barrier-to-cut-edge sidecar mapping.
//
// barriers must already be snapped (snap.Snap) and filtered to exclude
// off-network barriers and exact position+flowline duplicates, per
// spec.md §4.E's stated input contract.
func Cut(store *flowline.Store, joins *join.Table, counter *idgen.Counter, barriers []snap.Barrier) ([]Mapping, error) {
	byFlowline := make(map[int64][]position)
	for _, b := range barriers {
		if b.OffNetwork() {
			continue
		}
		byFlowline[b.TargetFlowlineID] = append(byFlowline[b.TargetFlowlineID], position{
			barrierID: b.ID,
			measure:   b.Measure,
			atOrigin:  b.AtEndpoint && b.Measure <= 0,
			atTerm:    b.AtEndpoint && b.Measure > 0,
		})
	}

	var mappings []Mapping
	for flowlineID, positions := range byFlowline {
		f, err := store.Get(flowlineID)
		if err != nil {
			return nil, err
		}

		sort.Slice(positions, func(i, j int) bool { return positions[i].measure < positions[j].measure })
		positions = dropRedundantEndpoints(joins, flowlineID, positions)
		if len(positions) == 0 {
			continue
		}

		measures, groups := groupMeasures(positions)
		children, err := mintChildren(counter, f, measures)
		if err != nil {
			return nil, err
		}

		rewireJoins(joins, flowlineID, children)

		if err := store.Remove(flowlineID); err != nil {
			return nil, err
		}
		for _, c := range children {
			if err := store.Insert(c); err != nil {
				return nil, err
			}
		}

		for gi, barrierIDs := range groups {
			up := children[gi].ID
			down := children[gi+1].ID
			for _, bID := range barrierIDs {
				mappings = append(mappings, Mapping{BarrierID: bID, UpstreamID: up, DownstreamID: down})
			}
		}
	}

	store.Rebuild()

	return mappings, nil
}

// dropRedundantEndpoints removes endpoint-snapped positions that coincide
// with an existing natural origin/terminus and therefore add no new cut
// (spec.md §4.E step 2).
func dropRedundantEndpoints(joins *join.Table, flowlineID int64, positions []position) []position {
	out := positions[:0:0]
	hasUpstreamOrigin := onlySentinel(joins.UpstreamOf(flowlineID))
	hasDownstreamTerm := onlySentinel(joins.DownstreamOf(flowlineID))

	for _, p := range positions {
		if p.atOrigin && hasUpstreamOrigin {
			continue
		}
		if p.atTerm && hasDownstreamTerm {
			continue
		}
		out = append(out, p)
	}

	return out
}

func onlySentinel(ids []int64) bool {
	return len(ids) == 1 && ids[0] == join.Origin
}

// groupMeasures collapses positions within MergeEpsilon of each other into
// a single cut measure, returning the sorted distinct measures and, for
// each resulting cut, the barrier ids that share it.
func groupMeasures(positions []position) ([]float64, [][]int64) {
	var measures []float64
	var groups [][]int64

	for _, p := range positions {
		if len(measures) > 0 && p.measure-measures[len(measures)-1] <= MergeEpsilon {
			groups[len(groups)-1] = append(groups[len(groups)-1], p.barrierID)

			continue
		}
		measures = append(measures, p.measure)
		groups = append(groups, []int64{p.barrierID})
	}

	return measures, groups
}

// mintChildren splits f's geometry at measures and assigns each piece an
// id: every child, the first included, gets a fresh id from counter
// (rooted above the max vendor id), so f.ID is never reused.
func mintChildren(counter *idgen.Counter, f *flowline.Flowline, measures []float64) ([]*flowline.Flowline, error) {
	pieces := geomutil.Split(f.Geometry, measures)
	children := make([]*flowline.Flowline, 0, len(pieces))

	for _, geom := range pieces {
		id, err := counter.Next()
		if err != nil {
			return nil, fmt.Errorf("cut: %w", err)
		}
		child := &flowline.Flowline{
			ID:        id,
			Geometry:  geom,
			HUC4:      f.HUC4,
			GNISName:  f.GNISName,
			SizeClass: f.SizeClass,
			Loop:      f.Loop,
			Perennial: f.Perennial,
		}
		child.Derive()
		children = append(children, child)
	}

	return children, nil
}

// rewireJoins implements spec.md §4.E step 6: incoming edges to f move to
// the first child, outgoing edges move to the last child, and adjacent
// children are chained together.
func rewireJoins(joins *join.Table, flowlineID int64, children []*flowline.Flowline) {
	for _, u := range joins.UpstreamOf(flowlineID) {
		joins.Remove(u, flowlineID)
		joins.Add(u, children[0].ID)
	}
	for _, d := range joins.DownstreamOf(flowlineID) {
		joins.Remove(flowlineID, d)
		joins.Add(children[len(children)-1].ID, d)
	}
	for i := 0; i < len(children)-1; i++ {
		joins.Add(children[i].ID, children[i+1].ID)
	}
}
