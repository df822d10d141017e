// Package tablestore implements the on-disk intermediate format (spec.md
// §6): "a column-oriented binary table format supporting per-column
// compression and rapid whole-table load/store... Files are
// self-describing (schema embedded)."
//
// Grounded on squat-collective-rat/platform/internal/arrowutil/arrowutil.go,
// which already speaks Arrow IPC record batches in this codebase's
// idiom (bytes.Reader + ipc.NewReader + per-column typed extraction);
// tablestore adds the write side and a flowline-shaped schema on top of
// that same library.
package tablestore

import "github.com/apache/arrow-go/v18/arrow"

// CRSKey is the schema metadata key holding the input CRS identifier
// (spec.md §6: "CRS mismatch is a fatal ingestion error" - the on-disk
// format records the CRS it was written under so a reader can check it).
const CRSKey = "hydronet.crs"

// Column names, in on-disk field order.
const (
	ColID        = "id"
	ColGeometry  = "geometry" // well-known-binary, per spec.md §6
	ColHUC4      = "huc4"
	ColGNISName  = "gnis_name"
	ColSizeClass = "size_class"
	ColLoop      = "loop"
	ColPerennial = "perennial"
	ColLength    = "length"
	ColSinuosity = "sinuosity"
	ColNetworkID = "network_id" // -1 when not yet assigned
)

// Schema builds the Arrow schema for a cut Flowline Store, embedding crs
// in the schema's key-value metadata so the file is self-describing.
func Schema(crs string) *arrow.Schema {
	fields := []arrow.Field{
		{Name: ColID, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColGeometry, Type: arrow.BinaryTypes.Binary},
		{Name: ColHUC4, Type: arrow.BinaryTypes.String},
		{Name: ColGNISName, Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: ColSizeClass, Type: arrow.PrimitiveTypes.Int8},
		{Name: ColLoop, Type: arrow.FixedWidthTypes.Boolean},
		{Name: ColPerennial, Type: arrow.FixedWidthTypes.Boolean},
		{Name: ColLength, Type: arrow.PrimitiveTypes.Float64},
		{Name: ColSinuosity, Type: arrow.PrimitiveTypes.Float64},
		{Name: ColNetworkID, Type: arrow.PrimitiveTypes.Int64},
	}
	metadata := arrow.NewMetadata([]string{CRSKey}, []string{crs})

	return arrow.NewSchema(fields, &metadata)
}
