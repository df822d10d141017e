package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hydronet/cut"
	"github.com/katalvlaran/hydronet/diag"
	"github.com/katalvlaran/hydronet/hyerrors"
	"github.com/katalvlaran/hydronet/join"
	"github.com/katalvlaran/hydronet/network"
)

// scenario 6: traversal stops at barrier. A -> B -> C chain (A upstream of
// B, B upstream of C), with a barrier cutting the A/B edge. The upstream
// walk only ever looks backward (toward headwaters), so root B's walk
// cannot reach A (a root in its own right) nor C (which lies downstream of
// B, never upstream of it). B's network is {B} alone; C, left unassigned
// once every root is exhausted, becomes its own single-member island.
func TestBuildTraversalStopsAtBarrier(t *testing.T) {
	joins := join.NewTable()
	// A (1) -> B (2) -> C (3) -> Origin, Origin -> A
	joins.Add(join.Origin, 1)
	joins.Add(1, 2)
	joins.Add(2, 3)
	joins.Add(3, join.Origin)

	mappings := []cut.Mapping{
		{BarrierID: 1, UpstreamID: 1, DownstreamID: 2},
	}

	diagnostics := diag.New()
	networks, err := network.Build([]int64{1, 2, 3}, joins, mappings, noLoops, diagnostics)
	require.NoError(t, err)

	require.Len(t, networks, 3)

	byRoot := make(map[int64]network.Network, len(networks))
	for _, n := range networks {
		byRoot[n.RootID] = n
	}

	require.ElementsMatch(t, []int64{1}, byRoot[1].Members)
	require.ElementsMatch(t, []int64{2}, byRoot[2].Members)
	require.ElementsMatch(t, []int64{3}, byRoot[3].Members)
	require.Equal(t, 0, diagnostics.Len())
}

// A disconnected loop with no barrier and no natural origin (e.g. an
// isolated ring), where every member is flagged loop=true, is the one
// exemption spec.md §3 invariant 4 allows from acyclicity; it forms its
// own network, rooted at its downstream-most member by lowest id.
func TestBuildDisconnectedLoopBecomesOwnNetwork(t *testing.T) {
	joins := join.NewTable()
	joins.Add(5, 6)
	joins.Add(6, 7)
	joins.Add(7, 5)

	diagnostics := diag.New()
	networks, err := network.Build([]int64{5, 6, 7}, joins, nil, allLoops, diagnostics)
	require.NoError(t, err)

	require.Len(t, networks, 1)
	require.Equal(t, int64(5), networks[0].RootID)
	require.ElementsMatch(t, []int64{5, 6, 7}, networks[0].Members)
}

// The same ring, without every member flagged loop=true, is a disallowed
// cycle and must abort with hyerrors.ErrCycleDetected instead of silently
// folding into one network.
func TestBuildNonLoopCycleIsRejected(t *testing.T) {
	joins := join.NewTable()
	joins.Add(5, 6)
	joins.Add(6, 7)
	joins.Add(7, 5)

	diagnostics := diag.New()
	_, err := network.Build([]int64{5, 6, 7}, joins, nil, noLoops, diagnostics)
	require.ErrorIs(t, err, hyerrors.ErrCycleDetected)
}

// A braided diamond where node 4 is reachable from root 5 through two
// separate tributaries (2 and 3) must be visited once: the second branch
// to reach it finds it already assigned to the same network and skips it
// silently, without raising a DoubleAssignment diagnostic.
func TestBuildDiamondWithinNetworkNoReentry(t *testing.T) {
	joins := join.NewTable()
	joins.Add(join.Origin, 1)
	joins.Add(1, 4)
	joins.Add(4, 2)
	joins.Add(4, 3)
	joins.Add(2, 5)
	joins.Add(3, 5)
	joins.Add(5, join.Origin)

	mappings := []cut.Mapping{
		{BarrierID: 1, UpstreamID: 1, DownstreamID: 5},
	}

	diagnostics := diag.New()
	networks, err := network.Build([]int64{1, 2, 3, 4, 5}, joins, mappings, noLoops, diagnostics)
	require.NoError(t, err)

	require.Len(t, networks, 2)

	byRoot := make(map[int64]network.Network, len(networks))
	for _, n := range networks {
		byRoot[n.RootID] = n
	}
	require.ElementsMatch(t, []int64{1}, byRoot[1].Members)
	require.ElementsMatch(t, []int64{2, 3, 4, 5}, byRoot[5].Members)
	require.Equal(t, 0, diagnostics.Len())
}

// Two barrier-delimited roots whose upstream walks both reach a shared
// flowline (invalid on a true DAG, but exercised here) record a
// DoubleAssignment diagnostic and keep the first assignment.
func TestBuildDoubleAssignmentRecordsDiagnostic(t *testing.T) {
	joins := join.NewTable()
	joins.Add(30, 10)
	joins.Add(30, 20)

	mappings := []cut.Mapping{
		{BarrierID: 1, UpstreamID: 30, DownstreamID: 10},
		{BarrierID: 2, UpstreamID: 30, DownstreamID: 20},
	}

	diagnostics := diag.New()
	networks, err := network.Build([]int64{10, 20, 30}, joins, mappings, noLoops, diagnostics)
	require.NoError(t, err)

	require.Len(t, networks, 2)
	require.Equal(t, 1, diagnostics.Len())
	require.Len(t, diagnostics.Of(diag.KindDoubleAssignment), 1)
}

func noLoops(int64) bool { return false }

func allLoops(int64) bool { return true }
