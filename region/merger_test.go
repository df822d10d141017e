package region_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/diag"
	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/join"
	"github.com/katalvlaran/hydronet/region"
)

func basinOf(t *testing.T, huc4 string, fl []*flowline.Flowline, pairs [][2]int64) region.Basin {
	t.Helper()
	store := flowline.NewStore()
	for _, f := range fl {
		f.HUC4 = huc4
		require.NoError(t, store.Insert(f))
	}
	store.Rebuild()

	joins := join.NewTable()
	for _, p := range pairs {
		joins.Add(p[0], p[1])
	}

	return region.Basin{Store: store, Joins: joins}
}

// scenario 3: border stitch.
func TestMergeStitchesBorder(t *testing.T) {
	a := &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {10, 0}}}
	bBasin := &flowline.Flowline{ID: 2, Geometry: orb.LineString{{10, 0}, {20, 0}}}

	basinA := basinOf(t, "X", []*flowline.Flowline{a}, [][2]int64{{join.Origin, 1}, {1, join.Origin}})
	basinB := basinOf(t, "Y", []*flowline.Flowline{bBasin}, [][2]int64{{join.Origin, 2}, {2, join.Origin}})

	store, joins, diagnostics, err := region.Merge([]region.Basin{basinA, basinB})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	require.Equal(t, 0, diagnostics.Len())

	require.ElementsMatch(t, []int64{2}, joins.DownstreamOf(1))
	require.ElementsMatch(t, []int64{1}, joins.UpstreamOf(2))
	require.NotContains(t, joins.DownstreamOf(1), join.Origin)
}

// scenario 4: border ambiguity.
func TestMergeBorderAmbiguity(t *testing.T) {
	a := &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {10, 0}}}
	b1 := &flowline.Flowline{ID: 2, Geometry: orb.LineString{{10, 0}, {20, 0}}}
	b2 := &flowline.Flowline{ID: 3, Geometry: orb.LineString{{10, 0}, {10, 10}}}

	basinA := basinOf(t, "X", []*flowline.Flowline{a}, [][2]int64{{join.Origin, 1}, {1, join.Origin}})
	basinB := basinOf(t, "Y", []*flowline.Flowline{b1, b2},
		[][2]int64{{join.Origin, 2}, {2, join.Origin}, {join.Origin, 3}, {3, join.Origin}})

	_, joins, diagnostics, err := region.Merge([]region.Basin{basinA, basinB})
	require.NoError(t, err)
	require.Equal(t, 1, diagnostics.Len())
	require.Equal(t, diag.KindBorderAmbiguity, diagnostics.Entries()[0].Kind)

	require.Contains(t, joins.DownstreamOf(1), join.Origin)
}

func TestMergeDuplicateAcrossBasins(t *testing.T) {
	a := &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {10, 0}}}
	a2 := &flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}, {5, 0}}}

	basinA := basinOf(t, "X", []*flowline.Flowline{a}, nil)
	basinB := basinOf(t, "Y", []*flowline.Flowline{a2}, nil)

	_, _, _, err := region.Merge([]region.Basin{basinA, basinB})
	require.Error(t, err)
}
