package snap_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/snap"
)

func defaultOpts() snap.Options {
	return snap.Options{
		MaxSnapDist:             100,
		EndpointEpsilon:         1,
		NameSimilarityThreshold: 0.8,
		AmbiguousSnapEpsilon:    0.1,
	}
}

func newStore(t *testing.T, fl ...*flowline.Flowline) *flowline.Store {
	t.Helper()
	s := flowline.NewStore()
	for _, f := range fl {
		require.NoError(t, s.Insert(f))
	}
	s.Rebuild()

	return s
}

// scenario 1: single flowline, one barrier mid-span.
func TestSnapMidSpan(t *testing.T) {
	store := newStore(t, &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {100, 0}}})
	b := snap.Barrier{ID: 1, Kind: snap.KindDam, X: 50, Y: 0}

	got, ambiguous, err := snap.Snap(store, b, defaultOpts())
	require.NoError(t, err)
	require.False(t, ambiguous)
	require.True(t, got.Snapped)
	require.False(t, got.AtEndpoint)
	require.InDelta(t, 50, got.Measure, 1e-9)
	require.InDelta(t, 0, got.SnapDist, 1e-9)
}

// scenario 2: endpoint collapse.
func TestSnapEndpointCollapse(t *testing.T) {
	store := newStore(t, &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {100, 0}}})
	b := snap.Barrier{ID: 1, Kind: snap.KindDam, X: 0.2, Y: 0}

	got, _, err := snap.Snap(store, b, defaultOpts())
	require.NoError(t, err)
	require.True(t, got.AtEndpoint)
	require.InDelta(t, 0, got.Measure, 1e-9)
	require.Equal(t, 0.0, got.SnappedX)
}

// scenario 5: nearest-flowline tie broken by ascending id.
func TestSnapNearestTie(t *testing.T) {
	store := newStore(t,
		&flowline.Flowline{ID: 7, Geometry: orb.LineString{{0, 1}, {100, 1}}},
		&flowline.Flowline{ID: 3, Geometry: orb.LineString{{0, -1}, {100, -1}}},
	)
	b := snap.Barrier{ID: 1, Kind: snap.KindDam, X: 50, Y: 0}

	got, _, err := snap.Snap(store, b, defaultOpts())
	require.NoError(t, err)
	require.Equal(t, int64(3), got.TargetFlowlineID)
	require.GreaterOrEqual(t, got.CandidatesWithin100m, 2)
}

func TestSnapOffNetwork(t *testing.T) {
	store := newStore(t, &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {100, 0}}})
	b := snap.Barrier{ID: 1, Kind: snap.KindDam, X: 0, Y: 1000}

	got, _, err := snap.Snap(store, b, defaultOpts())
	require.NoError(t, err)
	require.True(t, got.OffNetwork())
}

func TestMatchNameClasses(t *testing.T) {
	store := newStore(t, &flowline.Flowline{ID: 1, GNISName: "Mill Creek", Geometry: orb.LineString{{0, 0}, {10, 0}}})
	exact := snap.Barrier{ID: 1, X: 5, Y: 0, GNISName: "mill  creek!"}
	got, _, err := snap.Snap(store, exact, defaultOpts())
	require.NoError(t, err)
	require.Equal(t, snap.NameExact, got.NameMatchResult)

	none := snap.Barrier{ID: 2, X: 5, Y: 0, GNISName: "Totally Different"}
	got2, _, err := snap.Snap(store, none, defaultOpts())
	require.NoError(t, err)
	require.Equal(t, snap.NameNone, got2.NameMatchResult)
}
