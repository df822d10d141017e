package join

import (
	"fmt"

	"github.com/katalvlaran/hydronet/hyerrors"
)

// Reader yields (upstream_id, downstream_id) pairs from an external
// collaborator (spec.md §6), using the sentinel-0 convention for
// network origins/termini.
type Reader interface {
	Next() (upstream, downstream int64, ok bool, err error)
}

// SliceReader adapts an in-memory slice of pairs to Reader.
type SliceReader struct {
	pairs [][2]int64
	pos   int
}

// NewSliceReader wraps pairs as a Reader.
func NewSliceReader(pairs [][2]int64) *SliceReader {
	return &SliceReader{pairs: pairs}
}

// Next implements Reader.
func (r *SliceReader) Next() (int64, int64, bool, error) {
	if r.pos >= len(r.pairs) {
		return 0, 0, false, nil
	}
	p := r.pairs[r.pos]
	r.pos++

	return p[0], p[1], true, nil
}

// LoadAll drains reader into a freshly built Table.
func LoadAll(reader Reader) (*Table, error) {
	table := NewTable()
	for {
		u, d, ok, err := reader.Next()
		if err != nil {
			return nil, fmt.Errorf("join: %w", err)
		}
		if !ok {
			break
		}
		table.Add(u, d)
	}

	return table, nil
}

// Validate checks invariant 1 of spec.md §3: every id referenced by t,
// other than the Origin sentinel, must satisfy exists. It returns the
// first violation wrapped in hyerrors.ErrInvalidJoin.
func Validate(t *Table, exists func(id int64) bool) error {
	for _, pair := range t.Edges() {
		for _, id := range pair {
			if id == Origin {
				continue
			}
			if !exists(id) {
				return fmt.Errorf("join: id %d: %w", id, hyerrors.ErrInvalidJoin)
			}
		}
	}

	return nil
}
