// Package flowline implements the Flowline Store (spec.md §4.A): an
// in-memory table of flowline polylines with attributes and a spatial
// index, grounded on core.Graph's map-plus-RWMutex shape (core/types.go,
// core/methods.go) generalized from string vertex ids to the int64
// NHDPlusID space and from abstract vertices to geometric flowlines.
package flowline

import (
	"github.com/paulmach/orb"

	"github.com/katalvlaran/hydronet/geomutil"
)

// SizeClass is the ordinal stream-size classification derived from mean
// annual flow (spec.md §3).
type SizeClass int

// Size classes, smallest to largest, matching spec.md's ordinal list.
const (
	Headwater SizeClass = iota
	SmallCreek
	Creek
	SmallRiver
	River
	LargeRiver
	GreatRiver
)

// String renders the SizeClass name, following the teacher's enum
// String() convention (dfs visit-state naming in dfs/types.go).
func (s SizeClass) String() string {
	switch s {
	case Headwater:
		return "headwater"
	case SmallCreek:
		return "small_creek"
	case Creek:
		return "creek"
	case SmallRiver:
		return "small_river"
	case River:
		return "river"
	case LargeRiver:
		return "large_river"
	case GreatRiver:
		return "great_river"
	default:
		return "unknown"
	}
}

// Flowline is a directed polyline segment of a stream (spec.md §3).
// Geometry runs upstream-to-downstream: Geometry[0] is the upstream end,
// Geometry[len-1] the downstream end.
type Flowline struct {
	ID        int64
	Geometry  orb.LineString
	HUC4      string
	GNISName  string // empty means unnamed
	SizeClass SizeClass
	Loop      bool
	Perennial bool // false means intermittent/ephemeral; excluded from perennial_length_km

	// Length and Sinuosity are derived from Geometry; call Derive (or let
	// Store.Insert call it) to keep them current after constructing or
	// mutating Geometry directly.
	Length    float64
	Sinuosity float64
}

// Derive recomputes Length and Sinuosity from Geometry. Store.Insert calls
// it for a Flowline whose Length is zero; a Flowline inserted with a
// nonzero Length keeps the Length and Sinuosity it already carries.
func (f *Flowline) Derive() {
	f.Length = geomutil.Length(f.Geometry)
	f.Sinuosity = geomutil.Sinuosity(f.Geometry)
}

// Bound returns the geometry's bounding box, used by the Store's spatial
// index.
func (f *Flowline) Bound() orb.Bound {
	return f.Geometry.Bound()
}

// UpstreamEnd returns the first point of Geometry.
func (f *Flowline) UpstreamEnd() orb.Point {
	return f.Geometry[0]
}

// DownstreamEnd returns the last point of Geometry.
func (f *Flowline) DownstreamEnd() orb.Point {
	return f.Geometry[len(f.Geometry)-1]
}
