package flowline

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/hydronet/geomutil"
	"github.com/katalvlaran/hydronet/hyerrors"
	"github.com/katalvlaran/hydronet/spatial"
)

// Store holds every flowline for a region or region-group, the same
// map-plus-RWMutex shape core.Graph uses for vertices (core/types.go),
// generalized to int64 ids and backed by a spatial.Index instead of an
// adjacency map.
type Store struct {
	mu        sync.RWMutex
	flowlines map[int64]*Flowline
	index     *spatial.Index
	dirty     bool
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		flowlines: make(map[int64]*Flowline),
		index:     spatial.Build(nil),
	}
}

// Insert adds f to the store, deriving Length/Sinuosity if Length is zero
// and Geometry has at least two points. Returns hyerrors.ErrDuplicateId if
// f.ID is already present, or hyerrors.ErrEmptyGeometry if the geometry is
// missing or shorter than geomutil.MinLength.
func (s *Store) Insert(f *Flowline) error {
	if len(f.Geometry) < 2 {
		return fmt.Errorf("flowline %d: %w", f.ID, hyerrors.ErrEmptyGeometry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.flowlines[f.ID]; exists {
		return fmt.Errorf("flowline %d: %w", f.ID, hyerrors.ErrDuplicateId)
	}

	if f.Length == 0 {
		f.Derive()
	}
	if f.Length < geomutil.MinLength {
		return fmt.Errorf("flowline %d: %w", f.ID, hyerrors.ErrEmptyGeometry)
	}

	s.flowlines[f.ID] = f
	s.dirty = true

	return nil
}

// Remove deletes the flowline with the given id. Returns
// hyerrors.ErrUnknownId if absent.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.flowlines[id]; !exists {
		return fmt.Errorf("flowline %d: %w", id, hyerrors.ErrUnknownId)
	}
	delete(s.flowlines, id)
	s.dirty = true

	return nil
}

// Get returns the flowline with the given id, or hyerrors.ErrUnknownId.
func (s *Store) Get(id int64) (*Flowline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.flowlines[id]
	if !exists {
		return nil, fmt.Errorf("flowline %d: %w", id, hyerrors.ErrUnknownId)
	}

	return f, nil
}

// Len reports the number of flowlines currently in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.flowlines)
}

// Iter returns a restartable, lazy sequence over every flowline in the
// store. Flowlines are visited in ascending id order, so two successive
// iterations over an unmutated store agree.
func (s *Store) Iter() iter.Seq[*Flowline] {
	return func(yield func(*Flowline) bool) {
		s.mu.RLock()
		ids := make([]int64, 0, len(s.flowlines))
		for id := range s.flowlines {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		flowlines := make([]*Flowline, len(ids))
		for i, id := range ids {
			flowlines[i] = s.flowlines[id]
		}
		s.mu.RUnlock()

		for _, f := range flowlines {
			if !yield(f) {
				return
			}
		}
	}
}

// Rebuild reconstructs the spatial index from the store's current
// contents. The Cutter must call this after it finishes mutating the
// store (spec.md §4.A: "implementations ... may require an explicit
// rebuild() call that the Cutter invokes after completion").
func (s *Store) Rebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]spatial.Entry, 0, len(s.flowlines))
	for id, f := range s.flowlines {
		entries = append(entries, spatial.Entry{ID: id, Bound: f.Bound()})
	}
	s.index = spatial.Build(entries)
	s.dirty = false
}

// Candidate is one result of a Nearest query: a flowline id paired with
// its geometric distance to the query point.
type Candidate struct {
	ID       int64
	Distance float64
}

// Nearest returns, in ascending distance order, up to limit flowlines
// within maxDist of point, using true point-to-polyline distance (not
// bounding-box distance). Ties are broken by ascending id (spec.md §4.D:
// "ties in distance are broken by ascending id").
//
// Nearest triggers an implicit Rebuild if the index is stale relative to
// the store's last mutation, so callers never observe results against a
// torn index.
func (s *Store) Nearest(point orb.Point, maxDist float64, limit int) []Candidate {
	s.mu.RLock()
	if s.dirty {
		s.mu.RUnlock()
		s.Rebuild()
		s.mu.RLock()
	}
	defer s.mu.RUnlock()

	pad := maxDist
	query := orb.Bound{
		Min: orb.Point{point[0] - pad, point[1] - pad},
		Max: orb.Point{point[0] + pad, point[1] + pad},
	}
	ids := s.index.Search(query)

	candidates := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		f := s.flowlines[id]
		if f == nil {
			continue
		}
		proj := geomutil.Project(f.Geometry, point)
		if proj.Distance <= maxDist {
			candidates = append(candidates, Candidate{ID: id, Distance: proj.Distance})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}

		return candidates[i].ID < candidates[j].ID
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// IDs returns every flowline id currently in the store, in ascending
// order.
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.flowlines))
	for id := range s.flowlines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Within returns the ids of every flowline whose bounding box intersects
// envelope.
func (s *Store) Within(envelope orb.Bound) []int64 {
	s.mu.RLock()
	if s.dirty {
		s.mu.RUnlock()
		s.Rebuild()
		s.mu.RLock()
	}
	defer s.mu.RUnlock()

	return s.index.Search(envelope)
}
