// Package spatial implements the bounding-box index the Flowline Store
// uses to answer nearest/within queries (spec.md §4.A: "Backed by a
// spatial index over flowline bounding boxes (R-tree family)").
//
// The index is bulk-loaded with the sort-tile-recurse (STR) algorithm: a
// simple, well-understood way to build a balanced R-tree in one pass when
// every entry is known up front, which matches the pipeline's "rebuild
// after structural mutation" contract rather than needing incremental
// insert/delete. No third-party R-tree package is exercised anywhere in
// the reference pack, so this is hand-rolled; see DESIGN.md for that call.
package spatial

import (
	"sort"

	"github.com/paulmach/orb"
)

// fanout bounds the number of children per internal node and the number
// of entries per leaf.
const fanout = 16

// Entry is one indexed item: an id paired with its bounding box.
type Entry struct {
	ID    int64
	Bound orb.Bound
}

type node struct {
	bound    orb.Bound
	children []*node // nil for leaves
	entries  []Entry // nil for internal nodes
}

func (n *node) leaf() bool { return n.children == nil }

// Index is an immutable-between-rebuilds R-tree over int64-identified
// bounding boxes.
type Index struct {
	root *node
}

// Build constructs an Index from scratch over entries. Build is the only
// way to populate an Index; there is no incremental insert, matching the
// spec's "implementations may require an explicit rebuild() call".
func Build(entries []Entry) *Index {
	if len(entries) == 0 {
		return &Index{root: &node{entries: nil}}
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)

	return &Index{root: strBuild(cp)}
}

// Search returns the ids of every entry whose bounding box intersects q.
func (idx *Index) Search(q orb.Bound) []int64 {
	var out []int64
	if idx.root == nil {
		return out
	}
	var walk func(n *node)
	walk = func(n *node) {
		if !n.bound.Intersects(q) {
			return
		}
		if n.leaf() {
			for _, e := range n.entries {
				if e.Bound.Intersects(q) {
					out = append(out, e.ID)
				}
			}

			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(idx.root)

	return out
}

// strBuild implements sort-tile-recurse bulk loading: sort by x-center
// into ceil(sqrt(n/fanout)) vertical slices, sort each slice by y-center,
// and pack fanout-sized runs into leaves; then recursively pack leaves
// into internal nodes the same way one level up.
func strBuild(entries []Entry) *node {
	leaves := strPackLeaves(entries)
	level := leaves
	for len(level) > 1 {
		level = packInternal(level)
	}

	return level[0]
}

func strPackLeaves(entries []Entry) []*node {
	n := len(entries)
	if n <= fanout {
		return []*node{newLeaf(entries)}
	}

	sliceCount := ceilSqrt(ceilDiv(n, fanout))
	sliceSize := ceilDiv(n, sliceCount)

	sort.Slice(entries, func(i, j int) bool {
		return centerX(entries[i].Bound) < centerX(entries[j].Bound)
	})

	var leaves []*node
	for start := 0; start < n; start += sliceSize {
		end := start + sliceSize
		if end > n {
			end = n
		}
		slice := entries[start:end]
		sort.Slice(slice, func(i, j int) bool {
			return centerY(slice[i].Bound) < centerY(slice[j].Bound)
		})
		for s := 0; s < len(slice); s += fanout {
			e := s + fanout
			if e > len(slice) {
				e = len(slice)
			}
			leaves = append(leaves, newLeaf(slice[s:e]))
		}
	}

	return leaves
}

func packInternal(children []*node) []*node {
	n := len(children)
	if n <= fanout {
		return []*node{newInternal(children)}
	}

	sliceCount := ceilSqrt(ceilDiv(n, fanout))
	sliceSize := ceilDiv(n, sliceCount)

	sort.Slice(children, func(i, j int) bool {
		return centerX(children[i].bound) < centerX(children[j].bound)
	})

	var parents []*node
	for start := 0; start < n; start += sliceSize {
		end := start + sliceSize
		if end > n {
			end = n
		}
		slice := children[start:end]
		sort.Slice(slice, func(i, j int) bool {
			return centerY(slice[i].bound) < centerY(slice[j].bound)
		})
		for s := 0; s < len(slice); s += fanout {
			e := s + fanout
			if e > len(slice) {
				e = len(slice)
			}
			parents = append(parents, newInternal(slice[s:e]))
		}
	}

	return parents
}

func newLeaf(entries []Entry) *node {
	n := &node{entries: append([]Entry(nil), entries...)}
	n.bound = entries[0].Bound
	for _, e := range entries[1:] {
		n.bound = n.bound.Union(e.Bound)
	}

	return n
}

func newInternal(children []*node) *node {
	n := &node{children: children}
	n.bound = children[0].bound
	for _, c := range children[1:] {
		n.bound = n.bound.Union(c.bound)
	}

	return n
}

func centerX(b orb.Bound) float64 { return (b.Min[0] + b.Max[0]) / 2 }
func centerY(b orb.Bound) float64 { return (b.Min[1] + b.Max[1]) / 2 }

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}

	return (a + b - 1) / b
}

func ceilSqrt(a int) int {
	if a <= 1 {
		return 1
	}
	r := 1
	for r*r < a {
		r++
	}

	return r
}
