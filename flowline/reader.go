package flowline

// Reader yields flowline records from an external collaborator (spec.md
// §6: "A Flowline reader yielding (id, geometry, huc4, gnis_name?,
// size_class, loop) records in any order"). Reading the vendor geodatabase
// format is explicitly out of core scope; Reader is the seam the core
// consumes.
type Reader interface {
	// Next returns the next flowline, or ok=false once exhausted. err is
	// non-nil only on a genuine read failure.
	Next() (f Flowline, ok bool, err error)
}

// SliceReader adapts an in-memory slice of Flowline values to Reader, the
// implementation tests (and small programmatic callers) use in place of a
// real geodatabase reader.
type SliceReader struct {
	items []Flowline
	pos   int
}

// NewSliceReader wraps items as a Reader.
func NewSliceReader(items []Flowline) *SliceReader {
	return &SliceReader{items: items}
}

// Next implements Reader.
func (r *SliceReader) Next() (Flowline, bool, error) {
	if r.pos >= len(r.items) {
		return Flowline{}, false, nil
	}
	f := r.items[r.pos]
	r.pos++

	return f, true, nil
}

// LoadAll drains reader into a freshly built Store, deriving Length and
// Sinuosity for every record. Returns the first ingestion error
// encountered (hyerrors.ErrDuplicateId, hyerrors.ErrEmptyGeometry, ...).
func LoadAll(reader Reader) (*Store, error) {
	store := NewStore()
	for {
		f, ok, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		rec := f
		if err := store.Insert(&rec); err != nil {
			return nil, err
		}
	}
	store.Rebuild()

	return store, nil
}
