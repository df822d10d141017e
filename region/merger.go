// Package region implements the Region Merger (spec.md §4.C): it
// concatenates per-basin Flowline Stores and reconciles Join Tables across
// basin borders.
//
// Construction follows builder's deterministic, left-to-right composition
// style (builder/api.go, builder/validators.go): union first, validate as
// you go, then a bounded border-reconciliation pass with no backtracking
// or guessing — ambiguity is surfaced, never silently resolved.
package region

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/hydronet/diag"
	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/geomutil"
	"github.com/katalvlaran/hydronet/hyerrors"
	"github.com/katalvlaran/hydronet/join"
)

// Basin is one per-basin input pair.
type Basin struct {
	Store *flowline.Store
	Joins *join.Table
}

// BorderEpsilon is the distance, in meters, within which two basin-border
// endpoints are considered coincident (spec.md §4.C: "within 1 cm").
const BorderEpsilon = 0.01

// Merge unions N per-basin (Store, Table) pairs into one, then performs
// border reconciliation. Returns hyerrors.ErrDuplicateAcrossBasins if a
// flowline id appears in more than one basin. Non-fatal BorderAmbiguity
// situations are recorded in the returned Diagnostics rather than failing
// the merge (spec.md §4.C step 4).
//
// Merge is commutative up to row ordering: merge(A,B) and merge(B,A)
// produce the same store contents and join edges, since union and the
// border-matching predicate are both order-independent (spec.md §8
// property 5).
func Merge(basins []Basin) (*flowline.Store, *join.Table, *diag.Diagnostics, error) {
	merged := flowline.NewStore()
	mergedJoins := join.NewTable()
	diagnostics := diag.New()

	for _, b := range basins {
		for f := range b.Store.Iter() {
			cp := *f
			if err := merged.Insert(&cp); err != nil {
				return nil, nil, nil, fmt.Errorf("region: %w: id %d", hyerrors.ErrDuplicateAcrossBasins, f.ID)
			}
		}
		for _, e := range b.Joins.Edges() {
			mergedJoins.Add(e[0], e[1])
		}
	}
	merged.Rebuild()

	reconcileBorders(merged, mergedJoins, diagnostics)

	return merged, mergedJoins, diagnostics, nil
}

// reconcileBorders implements spec.md §4.C steps 3-4: for every flowline a
// whose downstream is only the Origin sentinel, look for a flowline b on a
// different huc4 whose upstream is only the Origin sentinel and whose
// start point sits within BorderEpsilon of a's end point. Exactly one such
// b rewires the sentinel edges into (a,b); more than one leaves the
// sentinels untouched and records a BorderAmbiguity diagnostic.
func reconcileBorders(store *flowline.Store, joins *join.Table, diagnostics *diag.Diagnostics) {
	var termini, origins []int64
	for f := range store.Iter() {
		if isOnlySentinelDownstream(joins, f.ID) {
			termini = append(termini, f.ID)
		}
		if isOnlySentinelUpstream(joins, f.ID) {
			origins = append(origins, f.ID)
		}
	}
	sort.Slice(termini, func(i, j int) bool { return termini[i] < termini[j] })
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })

	for _, aID := range termini {
		a, err := store.Get(aID)
		if err != nil {
			continue
		}
		var matches []int64
		for _, bID := range origins {
			b, err := store.Get(bID)
			if err != nil || b.HUC4 == a.HUC4 {
				continue
			}
			if geomutil.Distance(a.DownstreamEnd(), b.UpstreamEnd()) <= BorderEpsilon {
				matches = append(matches, bID)
			}
		}

		switch len(matches) {
		case 0:
			// no stitch point for this terminus; leave it as a real
			// region boundary/terminus.
		case 1:
			bID := matches[0]
			joins.Remove(aID, join.Origin)
			joins.Remove(join.Origin, bID)
			joins.Add(aID, bID)
		default:
			diagnostics.Add(diag.KindBorderAmbiguity, aID,
				"flowline %d borders %d candidate origins %v; sentinels left in place", aID, len(matches), matches)
		}
	}
}

func isOnlySentinelDownstream(joins *join.Table, id int64) bool {
	down := joins.DownstreamOf(id)

	return len(down) == 1 && down[0] == join.Origin
}

func isOnlySentinelUpstream(joins *join.Table, id int64) bool {
	up := joins.UpstreamOf(id)

	return len(up) == 1 && up[0] == join.Origin
}
