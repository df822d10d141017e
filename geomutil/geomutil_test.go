package geomutil_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/geomutil"
)

func TestLengthAndSinuosityStraightLine(t *testing.T) {
	ls := orb.LineString{{0, 0}, {100, 0}}

	assert.InDelta(t, 100, geomutil.Length(ls), 1e-9)
	assert.InDelta(t, 1, geomutil.Sinuosity(ls), 1e-9)
}

func TestSinuosityBowedLine(t *testing.T) {
	ls := orb.LineString{{0, 0}, {50, 50}, {100, 0}}

	straight := geomutil.Distance(ls[0], ls[len(ls)-1])
	arc := geomutil.Length(ls)
	assert.InDelta(t, straight/arc, geomutil.Sinuosity(ls), 1e-9)
	assert.Less(t, geomutil.Sinuosity(ls), 1.0)
}

func TestProjectMidSpanPerpendicular(t *testing.T) {
	ls := orb.LineString{{0, 0}, {100, 0}}

	proj := geomutil.Project(ls, orb.Point{50, 10})
	assert.InDelta(t, 10, proj.Distance, 1e-9)
	assert.InDelta(t, 50, proj.Measure, 1e-9)
	assert.InDelta(t, 50, proj.Point[0], 1e-9)
	assert.InDelta(t, 0, proj.Point[1], 1e-9)
}

func TestProjectClampsToEndpoint(t *testing.T) {
	ls := orb.LineString{{0, 0}, {100, 0}}

	proj := geomutil.Project(ls, orb.Point{-20, 5})
	assert.InDelta(t, 0, proj.Measure, 1e-9)
	assert.InDelta(t, 0, proj.Point[0], 1e-9)
}

func TestAtMeasureRoundTripsWithProject(t *testing.T) {
	ls := orb.LineString{{0, 0}, {30, 40}, {60, 40}}

	for _, s := range []float64{0, 10, 50, geomutil.Length(ls)} {
		p := geomutil.AtMeasure(ls, s)
		proj := geomutil.Project(ls, p)
		assert.InDelta(t, s, proj.Measure, 1e-6)
	}
}

func TestSplitPreservesTotalLength(t *testing.T) {
	ls := orb.LineString{{0, 0}, {100, 0}}
	total := geomutil.Length(ls)

	children := geomutil.Split(ls, []float64{30, 70})
	require.Len(t, children, 3)

	var sum float64
	for _, c := range children {
		sum += geomutil.Length(c)
	}
	assert.InDelta(t, total, sum, 1e-3)

	assert.Equal(t, ls[0], children[0][0])
	assert.Equal(t, ls[len(ls)-1], children[len(children)-1][len(children[len(children)-1])-1])

	for i := 0; i < len(children)-1; i++ {
		last := children[i][len(children[i])-1]
		first := children[i+1][0]
		assert.Equal(t, last, first)
	}
}

func TestSplitWithNoMeasuresReturnsWholeLine(t *testing.T) {
	ls := orb.LineString{{0, 0}, {10, 0}, {20, 5}}

	children := geomutil.Split(ls, nil)
	require.Len(t, children, 1)
	assert.Equal(t, ls, children[0])
}

func TestSplitAtInteriorVertexDoesNotDuplicatePoint(t *testing.T) {
	ls := orb.LineString{{0, 0}, {50, 0}, {100, 0}}

	children := geomutil.Split(ls, []float64{50})
	require.Len(t, children, 2)

	assert.Equal(t, orb.LineString{{0, 0}, {50, 0}}, children[0])
	assert.Equal(t, orb.LineString{{50, 0}, {100, 0}}, children[1])
}
