// Package hyerrors collects the sentinel errors shared across hydronet's
// pipeline stages (flowline, join, region, snap, cut, network, stats).
//
// Error policy (same discipline the rest of the module follows):
//   - Only sentinel variables are exposed at package scope.
//   - Callers branch on semantics with errors.Is, never string matching.
//   - Sentinels are never reformatted at the definition site; call sites
//     attach context with fmt.Errorf("%w: ...", Err...).
//   - Fatal sentinels abort a region; non-fatal ones are recorded in a
//     diag.Diagnostics instead of being returned as the pipeline error.
package hyerrors

import "errors"

// Ingestion errors.
var (
	// ErrDuplicateId indicates a Flowline Store insert collided with an
	// existing id within one store.
	ErrDuplicateId = errors.New("hydronet: duplicate flowline id")

	// ErrDuplicateAcrossBasins indicates two basins being merged share a
	// flowline id.
	ErrDuplicateAcrossBasins = errors.New("hydronet: duplicate id across basins")

	// ErrCrsMismatch indicates ingested geometry is not in the configured
	// common planar CRS.
	ErrCrsMismatch = errors.New("hydronet: CRS mismatch")

	// ErrEmptyGeometry indicates a flowline's geometry is empty or shorter
	// than the minimum allowed length.
	ErrEmptyGeometry = errors.New("hydronet: empty or degenerate geometry")

	// ErrInvalidJoin indicates a join references an id that is neither a
	// known flowline nor the sentinel origin/terminus id 0.
	ErrInvalidJoin = errors.New("hydronet: join references unknown id")
)

// Store/topology errors.
var (
	// ErrUnknownId indicates a lookup or removal referenced an id absent
	// from the Flowline Store.
	ErrUnknownId = errors.New("hydronet: unknown flowline id")

	// ErrCycleDetected indicates a non-loop cycle in the join graph; fatal
	// for the region in which it was found.
	ErrCycleDetected = errors.New("hydronet: cycle detected in join graph")
)

// Snapping errors.
var (
	// ErrNoCandidate indicates no flowline lies within max_snap_dist of a
	// barrier; the barrier is classified off_network, not fatal.
	ErrNoCandidate = errors.New("hydronet: no flowline within snap distance")

	// ErrAmbiguousSnap indicates two or more flowlines are within 0.1 m of
	// each other in snap distance; non-fatal, reported alongside the
	// chosen (deterministic) snap.
	ErrAmbiguousSnap = errors.New("hydronet: ambiguous snap candidates")
)

// Cutting errors.
var (
	// ErrIdCollision indicates a minted id for a cut product collided with
	// an id already present in the store; fatal.
	ErrIdCollision = errors.New("hydronet: minted id collision")
)

// Border reconciliation errors.
var (
	// ErrBorderAmbiguity indicates more than one candidate flowline on the
	// far side of a basin boundary matched a given endpoint; non-fatal,
	// sentinel joins are left in place.
	ErrBorderAmbiguity = errors.New("hydronet: border stitch ambiguity")
)

// Resource errors.
var (
	// ErrOutOfMemory is returned when a region's row-count budget is
	// exceeded during ingestion, instead of allocating until the process
	// swaps or is OOM-killed.
	ErrOutOfMemory = errors.New("hydronet: region exceeds memory budget")
)

// Assignment errors.
var (
	// ErrDoubleAssignment indicates a flowline was reached from two
	// distinct network roots; should not occur on a valid DAG, recorded
	// as a non-fatal diagnostic rather than aborting the run.
	ErrDoubleAssignment = errors.New("hydronet: flowline assigned to two networks")
)
