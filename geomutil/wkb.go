package geomutil

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// EncodeWKB serializes a flowline geometry to well-known-binary, the wire
// format tablestore uses for every geometry column (spec.md §6, "Geometry
// is serialized as well-known-binary per row").
func EncodeWKB(ls orb.LineString) ([]byte, error) {
	return wkb.Marshal(ls)
}

// DecodeWKB parses a well-known-binary blob back into a LineString. It
// returns an error if data does not decode to a LineString geometry.
func DecodeWKB(data []byte) (orb.LineString, error) {
	geom, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	ls, ok := geom.(orb.LineString)
	if !ok {
		return nil, errNotLineString(geom)
	}

	return ls, nil
}

type wrongGeometryTypeError struct {
	geom orb.Geometry
}

func (e *wrongGeometryTypeError) Error() string {
	return "geomutil: expected LineString, got " + e.geom.GeoJSONType()
}

func errNotLineString(geom orb.Geometry) error {
	return &wrongGeometryTypeError{geom: geom}
}
