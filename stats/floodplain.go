package stats

// FloodplainTable is the external per-catchment floodplain/landcover table
// consumed by Compute (spec.md §6: "A Floodplain table keyed by catchment
// id with columns natural_m2, total_m2"). Zonal statistics themselves are
// out of core scope; the core only left-joins pre-computed rows in.
//
// Catchment id coincides with the flowline's NHDPlusID in the vendor
// schema, so lookups key directly off flowline.Flowline.ID.
type FloodplainTable interface {
	// Lookup returns the natural and total floodplain area, in square
	// meters, for catchmentID, or ok=false if the catchment has no row.
	Lookup(catchmentID int64) (naturalM2, totalM2 float64, ok bool)
}

// MapFloodplainTable is an in-memory FloodplainTable backed by a plain map,
// used by tests and small programmatic callers in place of a real
// zonal-statistics feed.
type MapFloodplainTable map[int64][2]float64

// Lookup implements FloodplainTable.
func (m MapFloodplainTable) Lookup(catchmentID int64) (naturalM2, totalM2 float64, ok bool) {
	row, ok := m[catchmentID]
	if !ok {
		return 0, 0, false
	}

	return row[0], row[1], true
}
