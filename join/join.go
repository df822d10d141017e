// Package join implements the Join Table (spec.md §4.B): a multiset of
// directed (upstream_id, downstream_id) edges with constant-time lookup
// in both directions, plus the sentinel-0 origin/terminus convention.
//
// Shape is adapted from core.Graph's adjacencyList (core/adjacency_list.go
// / core/types.go): two nested maps of sets, one per direction, guarded by
// a single RWMutex instead of core's split muVert/muEdgeAdj pair, since a
// Join Table has no vertex bookkeeping of its own to protect separately.
package join

import "sync"

// Origin is the sentinel id meaning "this flowline has no upstream
// predecessor" when used as upstream_of's member, or "this flowline has no
// downstream successor" when used as downstream_of's member.
const Origin int64 = 0

// Table is a bidirectional multimap of directed edges among flowline ids.
// Duplicate edges are idempotent: adding the same (u,d) pair twice has no
// additional effect.
type Table struct {
	mu         sync.RWMutex
	upstream   map[int64]map[int64]struct{} // id -> set of predecessor ids
	downstream map[int64]map[int64]struct{} // id -> set of successor ids
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		upstream:   make(map[int64]map[int64]struct{}),
		downstream: make(map[int64]map[int64]struct{}),
	}
}

// Add inserts the directed edge (u,d). Idempotent.
func (t *Table) Add(u, d int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.addLocked(u, d)
}

func (t *Table) addLocked(u, d int64) {
	if t.downstream[u] == nil {
		t.downstream[u] = make(map[int64]struct{})
	}
	t.downstream[u][d] = struct{}{}

	if t.upstream[d] == nil {
		t.upstream[d] = make(map[int64]struct{})
	}
	t.upstream[d][u] = struct{}{}
}

// Remove deletes the directed edge (u,d), if present.
func (t *Table) Remove(u, d int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if nbrs, ok := t.downstream[u]; ok {
		delete(nbrs, d)
	}
	if nbrs, ok := t.upstream[d]; ok {
		delete(nbrs, u)
	}
}

// UpstreamOf returns the set of ids that flow into id; a result containing
// only Origin means id has no upstream predecessor.
func (t *Table) UpstreamOf(id int64) []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return toSlice(t.upstream[id])
}

// DownstreamOf returns the set of ids id flows into; a result containing
// only Origin means id has no downstream successor.
func (t *Table) DownstreamOf(id int64) []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return toSlice(t.downstream[id])
}

// HasUpstream reports whether id has at least one recorded upstream edge
// (including a sentinel Origin edge).
func (t *Table) HasUpstream(id int64) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.upstream[id]) > 0
}

// Len reports the total number of distinct directed edges recorded.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var n int
	for _, nbrs := range t.downstream {
		n += len(nbrs)
	}

	return n
}

// Edges returns every (u,d) pair currently recorded, in no particular
// order.
func (t *Table) Edges() [][2]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out [][2]int64
	for u, nbrs := range t.downstream {
		for d := range nbrs {
			out = append(out, [2]int64{u, d})
		}
	}

	return out
}

func toSlice(set map[int64]struct{}) []int64 {
	if len(set) == 0 {
		return nil
	}
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}

	return out
}
