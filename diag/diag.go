// Package diag implements the diagnostics channel described in the
// pipeline's error-handling policy: fatal errors abort a region and are
// returned as a plain error; everything else accumulates here and is
// returned alongside the stage's output.
package diag

import "fmt"

// Kind tags a non-fatal diagnostic with the sentinel it wraps, so callers
// can filter without re-parsing message text.
type Kind string

// Known non-fatal diagnostic kinds, one per §7 of the spec.
const (
	KindBorderAmbiguity   Kind = "border_ambiguity"
	KindAmbiguousSnap     Kind = "ambiguous_snap"
	KindDoubleAssignment  Kind = "double_assignment"
	KindOffNetworkBarrier Kind = "off_network_barrier"
)

// Entry is one recorded non-fatal diagnostic.
type Entry struct {
	Kind    Kind
	Message string
	// Subject identifies the object the diagnostic is about (a flowline
	// id, barrier id, ...); left as int64 since every id in this domain
	// is one.
	Subject int64
}

// Diagnostics accumulates non-fatal warnings produced by a pipeline run.
// Not safe for concurrent writes from multiple goroutines; callers that
// fan out (stats workers) must write to per-worker slices and merge.
type Diagnostics struct {
	entries []Entry
}

// New returns an empty Diagnostics accumulator.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Add records one diagnostic entry.
func (d *Diagnostics) Add(kind Kind, subject int64, format string, args ...interface{}) {
	d.entries = append(d.entries, Entry{
		Kind:    kind,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge appends another Diagnostics' entries onto d, preserving order.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.entries = append(d.entries, other.entries...)
}

// Entries returns a snapshot slice of all recorded diagnostics, in the
// order they were added.
func (d *Diagnostics) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)

	return out
}

// Len reports how many diagnostics have been recorded.
func (d *Diagnostics) Len() int {
	return len(d.entries)
}

// Of filters entries by Kind.
func (d *Diagnostics) Of(kind Kind) []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}
