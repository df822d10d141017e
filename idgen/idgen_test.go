package idgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/idgen"
)

func TestNewCounterStartsAboveMaxExisting(t *testing.T) {
	c := idgen.NewCounter(0, 41, nil)

	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestNewCounterPrefersBaseWhenHigher(t *testing.T) {
	c := idgen.NewCounter(100, 5, nil)

	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(100), id)
}

func TestNextSkipsClaimedIDs(t *testing.T) {
	claimed := map[int64]bool{10: true, 11: true}
	c := idgen.NewCounter(10, 0, func(id int64) bool { return claimed[id] })

	id, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
}

func TestNextIsMonotonicAcrossCalls(t *testing.T) {
	c := idgen.NewCounter(0, 0, nil)

	first, err := c.Next()
	require.NoError(t, err)
	second, err := c.Next()
	require.NoError(t, err)

	assert.Less(t, first, second)
}
