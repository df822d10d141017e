package flowline_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/hyerrors"
)

func straight(x1, y1, x2, y2 float64) orb.LineString {
	return orb.LineString{{x1, y1}, {x2, y2}}
}

func TestStoreInsertGetRemove(t *testing.T) {
	s := flowline.NewStore()
	f := &flowline.Flowline{ID: 1, Geometry: straight(0, 0, 100, 0)}
	require.NoError(t, s.Insert(f))
	require.Equal(t, 1, s.Len())

	got, err := s.Get(1)
	require.NoError(t, err)
	require.InDelta(t, 100, got.Length, 1e-9)
	require.InDelta(t, 1, got.Sinuosity, 1e-9)

	require.NoError(t, s.Remove(1))
	_, err = s.Get(1)
	require.True(t, errors.Is(err, hyerrors.ErrUnknownId))
}

func TestStoreDuplicateId(t *testing.T) {
	s := flowline.NewStore()
	require.NoError(t, s.Insert(&flowline.Flowline{ID: 1, Geometry: straight(0, 0, 1, 0)}))
	err := s.Insert(&flowline.Flowline{ID: 1, Geometry: straight(0, 0, 1, 0)})
	require.True(t, errors.Is(err, hyerrors.ErrDuplicateId))
}

func TestStoreEmptyGeometry(t *testing.T) {
	s := flowline.NewStore()
	err := s.Insert(&flowline.Flowline{ID: 1, Geometry: orb.LineString{{0, 0}}})
	require.True(t, errors.Is(err, hyerrors.ErrEmptyGeometry))
}

func TestStoreNearestTieBrokenByID(t *testing.T) {
	s := flowline.NewStore()
	require.NoError(t, s.Insert(&flowline.Flowline{ID: 7, Geometry: straight(0, 10, 100, 10)}))
	require.NoError(t, s.Insert(&flowline.Flowline{ID: 3, Geometry: straight(0, -10, 100, -10)}))
	s.Rebuild()

	cands := s.Nearest(orb.Point{50, 0}, 100, 5)
	require.Len(t, cands, 2)
	require.Equal(t, int64(3), cands[0].ID)
	require.Equal(t, int64(7), cands[1].ID)
}

func TestStoreIterStableOrder(t *testing.T) {
	s := flowline.NewStore()
	for _, id := range []int64{5, 1, 3} {
		require.NoError(t, s.Insert(&flowline.Flowline{ID: id, Geometry: straight(0, 0, 1, 0)}))
	}
	var order []int64
	for f := range s.Iter() {
		order = append(order, f.ID)
	}
	require.Equal(t, []int64{1, 3, 5}, order)
}
