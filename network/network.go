// Package network implements the Network Builder (spec.md §4.F): it
// traverses the cut join graph upstream from every barrier and natural
// origin, assigning each flowline to exactly one functional network.
//
// The traversal is written as an explicit iterative stack-based walk with
// a three-state discipline (root/unvisited/assigned) generalized from
// dfs.DetectCycles' Gray/Black state machine (dfs/cycle.go) and
// dfs.TopologicalSort's visit loop (dfs/topological.go) — same "mark, push,
// pop, explore" shape, adapted from single-root DFS to multi-root frontier
// assignment with an explicit stop-at-root rule instead of a single global
// visited set.
package network

import (
	"sort"

	"github.com/katalvlaran/hydronet/cut"
	"github.com/katalvlaran/hydronet/diag"
	"github.com/katalvlaran/hydronet/hyerrors"
	"github.com/katalvlaran/hydronet/join"
)

// Network is a maximal connected subgraph of cut flowlines delimited
// upstream by a barrier or natural origin and downstream by a single
// barrier or terminus (spec.md §3).
type Network struct {
	// RootID is the downstream-most flowline id in the network; its
	// stable identifier.
	RootID int64
	// Members lists every flowline id assigned to this network, sorted
	// ascending.
	Members []int64
}

// Build assigns every flowline in the join graph induced by joins to
// exactly one Network. cutMappings supplies the barrier-to-cut-edge
// sidecar table the Cutter produced (spec.md §4.E step 7); every
// DownstreamID in it is a root per spec.md §4.F step 1. allIDs lists every
// flowline id present in the store, needed to find disconnected islands.
// loopOf reports whether a given flowline id has loop=true, the one
// exemption spec.md §3 invariant 4 allows from the graph's acyclicity
// requirement.
//
// Build returns hyerrors.ErrCycleDetected if the join graph contains a
// cycle not exempted by loopOf on both of its closing edge's endpoints.
//
// Non-fatal DoubleAssignment situations (should not occur on a valid DAG)
// are recorded in diagnostics rather than failing the build.
func Build(allIDs []int64, joins *join.Table, cutMappings []cut.Mapping, loopOf func(id int64) bool, diagnostics *diag.Diagnostics) ([]Network, error) {
	if err := detectCycle(allIDs, joins, loopOf); err != nil {
		return nil, err
	}

	roots := computeRoots(allIDs, joins, cutMappings)

	assigned := make(map[int64]int64, len(allIDs))
	sortedRoots := make([]int64, 0, len(roots))
	for r := range roots {
		sortedRoots = append(sortedRoots, r)
	}
	sort.Slice(sortedRoots, func(i, j int) bool { return sortedRoots[i] < sortedRoots[j] })

	for _, root := range sortedRoots {
		walkUpstream(root, roots, joins, assigned, diagnostics)
	}

	assignIslands(allIDs, joins, assigned)

	return collectNetworks(assigned), nil
}

// detectCycle implements spec.md §3 invariant 4: the graph induced by
// Joins must be acyclic except where loop=true on both flowlines closing
// the cycle. It walks every flowline with an explicit stack of frames
// carrying a neighbor cursor, marking each node white/gray/black the way
// dfs.DetectCycles does (dfs/cycle.go) — a gray neighbor is a back edge and
// therefore a cycle, unless loopOf allows it.
func detectCycle(allIDs []int64, joins *join.Table, loopOf func(id int64) bool) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	type frame struct {
		id   int64
		next []int64
		idx  int
	}

	color := make(map[int64]int, len(allIDs))

	for _, start := range allIDs {
		if color[start] != white {
			continue
		}

		color[start] = gray
		stack := []*frame{{id: start, next: joins.DownstreamOf(start)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.idx >= len(top.next) {
				color[top.id] = black
				stack = stack[:len(stack)-1]

				continue
			}

			v := top.next[top.idx]
			top.idx++
			if v == join.Origin {
				continue
			}

			switch color[v] {
			case white:
				color[v] = gray
				stack = append(stack, &frame{id: v, next: joins.DownstreamOf(v)})
			case gray:
				if loopOf(top.id) && loopOf(v) {
					continue
				}

				return hyerrors.ErrCycleDetected
			}
		}
	}

	return nil
}

// computeRoots implements spec.md §4.F step 1: every flowline immediately
// downstream of a barrier, plus every flowline whose upstream set is only
// the Origin sentinel.
func computeRoots(allIDs []int64, joins *join.Table, cutMappings []cut.Mapping) map[int64]struct{} {
	roots := make(map[int64]struct{})
	for _, m := range cutMappings {
		roots[m.DownstreamID] = struct{}{}
	}
	for _, id := range allIDs {
		up := joins.UpstreamOf(id)
		if len(up) == 1 && up[0] == join.Origin {
			roots[id] = struct{}{}
		}
	}

	return roots
}

// walkUpstream performs one root's upstream walk (spec.md §4.F step 2).
func walkUpstream(root int64, roots map[int64]struct{}, joins *join.Table, assigned map[int64]int64, diagnostics *diag.Diagnostics) {
	if _, already := assigned[root]; already {
		return
	}
	assigned[root] = root
	stack := []int64{root}

	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, u := range joins.UpstreamOf(x) {
			if u == join.Origin {
				continue
			}
			if _, isRoot := roots[u]; isRoot && u != root {
				// Do not cross the barrier/origin boundary; u belongs to
				// its own network.
				continue
			}
			if existingRoot, ok := assigned[u]; ok {
				if existingRoot != root {
					diagnostics.Add(diag.KindDoubleAssignment, u,
						"flowline %d reached from networks %d and %d", u, existingRoot, root)
				}
				// Already assigned (same network: a loop revisit per
				// spec.md §9; different network: recorded above) - skip
				// either way, never re-enter.
				continue
			}
			assigned[u] = root
			stack = append(stack, u)
		}
	}
}

// assignIslands implements spec.md §4.F step 3: flowlines left unassigned
// after every root is exhausted form their own networks, connected via
// join edges among themselves, rooted at the downstream-most member (ties
// broken by lowest id).
func assignIslands(allIDs []int64, joins *join.Table, assigned map[int64]int64) {
	var unassigned []int64
	for _, id := range allIDs {
		if _, ok := assigned[id]; !ok {
			unassigned = append(unassigned, id)
		}
	}
	if len(unassigned) == 0 {
		return
	}
	sort.Slice(unassigned, func(i, j int) bool { return unassigned[i] < unassigned[j] })

	unassignedSet := make(map[int64]struct{}, len(unassigned))
	for _, id := range unassigned {
		unassignedSet[id] = struct{}{}
	}

	visited := make(map[int64]bool, len(unassigned))
	for _, id := range unassigned {
		if visited[id] {
			continue
		}
		component := collectComponent(id, joins, unassignedSet, visited)
		root := downstreamMost(component, joins, unassignedSet)
		for _, member := range component {
			assigned[member] = root
		}
	}
}

func collectComponent(start int64, joins *join.Table, unassignedSet map[int64]struct{}, visited map[int64]bool) []int64 {
	var component []int64
	stack := []int64{start}
	visited[start] = true

	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, x)

		neighbors := append(joins.UpstreamOf(x), joins.DownstreamOf(x)...)
		for _, n := range neighbors {
			if _, ok := unassignedSet[n]; !ok {
				continue
			}
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	sort.Slice(component, func(i, j int) bool { return component[i] < component[j] })

	return component
}

func downstreamMost(component []int64, joins *join.Table, unassignedSet map[int64]struct{}) int64 {
	best := int64(-1)
	for _, id := range component {
		terminal := true
		for _, d := range joins.DownstreamOf(id) {
			if _, ok := unassignedSet[d]; ok {
				terminal = false

				break
			}
		}
		if terminal && (best == -1 || id < best) {
			best = id
		}
	}
	if best == -1 {
		best = component[0] // every member loops back in; lowest id wins
	}

	return best
}

func collectNetworks(assigned map[int64]int64) []Network {
	byRoot := make(map[int64][]int64)
	for member, root := range assigned {
		byRoot[root] = append(byRoot[root], member)
	}

	networks := make([]Network, 0, len(byRoot))
	for root, members := range byRoot {
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		networks = append(networks, Network{RootID: root, Members: members})
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i].RootID < networks[j].RootID })

	return networks
}
