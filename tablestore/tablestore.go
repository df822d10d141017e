package tablestore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/katalvlaran/hydronet/flowline"
	"github.com/katalvlaran/hydronet/geomutil"
)

// unassignedNetworkID is the sentinel network_id written for flowlines
// not yet assigned to a Functional Network (a store snapshot taken before
// the Network Builder has run).
const unassignedNetworkID = -1

// WriteFlowlines serializes every flowline in store to w as a single
// Arrow IPC record batch, zstd-compressed per column, with crs embedded
// in the schema metadata. networkOf may be nil (pre-Network-Builder
// snapshot) or a flowline id -> network root id map.
func WriteFlowlines(w io.Writer, store *flowline.Store, networkOf map[int64]int64, crs string) error {
	mem := memory.NewGoAllocator()
	schema := Schema(crs)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	idB := builder.Field(0).(*array.Int64Builder)
	geomB := builder.Field(1).(*array.BinaryBuilder)
	huc4B := builder.Field(2).(*array.StringBuilder)
	nameB := builder.Field(3).(*array.StringBuilder)
	sizeB := builder.Field(4).(*array.Int8Builder)
	loopB := builder.Field(5).(*array.BooleanBuilder)
	perennialB := builder.Field(6).(*array.BooleanBuilder)
	lengthB := builder.Field(7).(*array.Float64Builder)
	sinuosityB := builder.Field(8).(*array.Float64Builder)
	networkB := builder.Field(9).(*array.Int64Builder)

	for f := range store.Iter() {
		wkb, err := geomutil.EncodeWKB(f.Geometry)
		if err != nil {
			return fmt.Errorf("tablestore: encode geometry for id %d: %w", f.ID, err)
		}

		idB.Append(f.ID)
		geomB.Append(wkb)
		huc4B.Append(f.HUC4)
		if f.GNISName == "" {
			nameB.AppendNull()
		} else {
			nameB.Append(f.GNISName)
		}
		sizeB.Append(int8(f.SizeClass))
		loopB.Append(f.Loop)
		perennialB.Append(f.Perennial)
		lengthB.Append(f.Length)
		sinuosityB.Append(f.Sinuosity)

		networkID := int64(unassignedNetworkID)
		if networkOf != nil {
			if nid, ok := networkOf[f.ID]; ok {
				networkID = nid
			}
		}
		networkB.Append(networkID)
	}

	record := builder.NewRecord()
	defer record.Release()

	writer, err := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem), ipc.WithZstd())
	if err != nil {
		return fmt.Errorf("tablestore: open writer: %w", err)
	}
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return fmt.Errorf("tablestore: write record: %w", err)
	}

	return writer.Close()
}

// ReadFlowlines deserializes a file produced by WriteFlowlines, returning
// a fresh Store, the id -> network root id assignments found (network_id
// values other than the unassigned sentinel), and the embedded CRS.
func ReadFlowlines(data []byte) (*flowline.Store, map[int64]int64, string, error) {
	mem := memory.NewGoAllocator()
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(mem))
	if err != nil {
		return nil, nil, "", fmt.Errorf("tablestore: open reader: %w", err)
	}
	defer reader.Release()

	crs, _ := reader.Schema().Metadata().GetValue(CRSKey)

	store := flowline.NewStore()
	networkOf := make(map[int64]int64)

	for reader.Next() {
		rec := reader.Record()

		idCol := rec.Column(0).(*array.Int64)
		geomCol := rec.Column(1).(*array.Binary)
		huc4Col := rec.Column(2).(*array.String)
		nameCol := rec.Column(3).(*array.String)
		sizeCol := rec.Column(4).(*array.Int8)
		loopCol := rec.Column(5).(*array.Boolean)
		perennialCol := rec.Column(6).(*array.Boolean)
		networkCol := rec.Column(9).(*array.Int64)

		for i := 0; i < int(rec.NumRows()); i++ {
			geom, err := geomutil.DecodeWKB(geomCol.Value(i))
			if err != nil {
				return nil, nil, "", fmt.Errorf("tablestore: decode geometry for row %d: %w", i, err)
			}

			f := &flowline.Flowline{
				ID:        idCol.Value(i),
				Geometry:  geom,
				HUC4:      huc4Col.Value(i),
				SizeClass: flowline.SizeClass(sizeCol.Value(i)),
				Loop:      loopCol.Value(i),
				Perennial: perennialCol.Value(i),
			}
			if !nameCol.IsNull(i) {
				f.GNISName = nameCol.Value(i)
			}
			f.Derive()

			if err := store.Insert(f); err != nil {
				return nil, nil, "", err
			}
			if nid := networkCol.Value(i); nid != unassignedNetworkID {
				networkOf[f.ID] = nid
			}
		}
	}
	if err := reader.Err(); err != nil && err != io.EOF {
		return nil, nil, "", fmt.Errorf("tablestore: read records: %w", err)
	}
	store.Rebuild()

	return store, networkOf, crs, nil
}
