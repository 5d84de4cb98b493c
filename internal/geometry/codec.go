package geometry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// ErrMalformedGeometry is returned when a stored or supplied geometry has the
// wrong type or dimensionality for the record it belongs to.
var ErrMalformedGeometry = errors.New("malformed geometry")

// CoordPrecision is the number of decimal places kept on derived coordinates
// and areas.
const CoordPrecision = 3

// Round3 rounds v to CoordPrecision decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// PointFromCoords encodes a planar coordinate pair plus elevation as a 3-D
// point. Coordinates are rounded to CoordPrecision first, so PointFromCoords
// and CoordsFromPoint are exact inverses.
func PointFromCoords(x, y, z float64) *geom.Point {
	return geom.NewPointFlat(geom.XYZ, []float64{Round3(x), Round3(y), Round3(z)})
}

// CoordsFromPoint decodes a 3-D point back into its (x, y, z) triple.
// A 2-D point is accepted with z reported as 0.
func CoordsFromPoint(g geom.T) (x, y, z float64, err error) {
	p, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: expected point, got %T", ErrMalformedGeometry, g)
	}
	switch p.Layout() {
	case geom.XY:
		return Round3(p.X()), Round3(p.Y()), 0, nil
	case geom.XYZ:
		return Round3(p.X()), Round3(p.Y()), Round3(p.Z()), nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: unsupported point layout %v", ErrMalformedGeometry, p.Layout())
	}
}

// MarshalWKB serializes any geometry for the bytea storage column.
func MarshalWKB(g geom.T) ([]byte, error) {
	return wkb.Marshal(g, binary.LittleEndian)
}

// UnmarshalWKB deserializes a stored geometry. Empty input yields nil.
func UnmarshalWKB(b []byte) (geom.T, error) {
	if len(b) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
	}
	return g, nil
}

// PointFromWKB decodes a stored point geometry.
func PointFromWKB(b []byte) (*geom.Point, error) {
	g, err := UnmarshalWKB(b)
	if err != nil || g == nil {
		return nil, err
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("%w: expected point, got %T", ErrMalformedGeometry, g)
	}
	return p, nil
}

// PolygonFromWKB decodes a stored polygon geometry.
func PolygonFromWKB(b []byte) (*geom.Polygon, error) {
	g, err := UnmarshalWKB(b)
	if err != nil || g == nil {
		return nil, err
	}
	p, ok := g.(*geom.Polygon)
	if !ok {
		return nil, fmt.Errorf("%w: expected polygon, got %T", ErrMalformedGeometry, g)
	}
	return p, nil
}

// LineStringFromWKB decodes a stored linestring geometry.
func LineStringFromWKB(b []byte) (*geom.LineString, error) {
	g, err := UnmarshalWKB(b)
	if err != nil || g == nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("%w: expected linestring, got %T", ErrMalformedGeometry, g)
	}
	return ls, nil
}
