package spatial_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/spatial"
)

func box(x1, y1, x2, y2 float64) orb.Bound {
	return orb.Bound{Min: orb.Point{x1, y1}, Max: orb.Point{x2, y2}}
}

func TestIndexSearchFindsIntersecting(t *testing.T) {
	entries := make([]spatial.Entry, 0, 50)
	for i := int64(0); i < 50; i++ {
		x := float64(i) * 10
		entries = append(entries, spatial.Entry{ID: i, Bound: box(x, 0, x+5, 5)})
	}
	idx := spatial.Build(entries)

	got := idx.Search(box(95, 0, 105, 5))
	require.Contains(t, got, int64(9))
	require.Contains(t, got, int64(10))
}

func TestIndexSearchEmpty(t *testing.T) {
	idx := spatial.Build(nil)
	require.Empty(t, idx.Search(box(0, 0, 1, 1)))
}

func TestIndexSearchNoMatch(t *testing.T) {
	idx := spatial.Build([]spatial.Entry{{ID: 1, Bound: box(0, 0, 1, 1)}})
	require.Empty(t, idx.Search(box(100, 100, 101, 101)))
}
