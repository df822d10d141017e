// Package idgen mints fresh flowline identifiers for cut products.
//
// Per the design notes in spec.md §9 ("Global state: none in the core"),
// the counter is a pipeline-scoped object explicitly passed to (or owned
// by) the Cutter — never a process-wide singleton, mirroring the way
// builder.builderConfig carries its own *rand.Rand instead of reaching for
// a package-level generator.
package idgen

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/hydronet/hyerrors"
)

// Counter mints strictly increasing int64 ids above a configured base,
// refusing to hand out any id already claimed by an existing flowline.
//
// Safe for concurrent use; a single mutex guards the monotonic cursor.
type Counter struct {
	mu      sync.Mutex
	next    int64
	claimed func(id int64) bool
}

// NewCounter returns a Counter that starts minting at base (or at the
// largest observed existing id + 1, whichever is greater), and that
// refuses to mint any id for which claimed reports true.
//
// claimed may be nil, in which case no collision check beyond monotonicity
// is performed.
func NewCounter(base int64, maxExistingID int64, claimed func(id int64) bool) *Counter {
	start := base
	if maxExistingID+1 > start {
		start = maxExistingID + 1
	}

	return &Counter{next: start, claimed: claimed}
}

// Next mints the next id, skipping over any id the caller's claimed
// predicate reports as already in use, and returns hyerrors.ErrIdCollision
// if the cursor cannot advance past a claimed range after a bounded number
// of attempts (a pathological, effectively-exhausted id space).
func (c *Counter) Next() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	const maxProbes = 1 << 20
	for i := 0; i < maxProbes; i++ {
		id := c.next
		c.next++
		if c.claimed == nil || !c.claimed(id) {
			return id, nil
		}
	}

	return 0, fmt.Errorf("idgen: %w: exhausted %d probes from base", hyerrors.ErrIdCollision, maxProbes)
}
