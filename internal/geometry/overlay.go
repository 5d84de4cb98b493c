package geometry

import (
	"math"

	cgeom "github.com/ctessum/geom"
	"github.com/twpayne/go-geom"
)

// Polygon set operations for the coverage ledger. Stored geometries use
// go-geom; the boolean ops run on ctessum/geom, which implements polygon
// clipping for planar coordinates.

func toPlanar(p *geom.Polygon) cgeom.Polygon {
	out := make(cgeom.Polygon, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		ring := make([]cgeom.Point, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, cgeom.Point{X: c[0], Y: c[1]})
		}
		out = append(out, ring)
	}
	return out
}

func unionAll(ps []*geom.Polygon) cgeom.Polygonal {
	// Union returns the Polygonal interface, so the accumulator has to be
	// interface-typed as well.
	var union cgeom.Polygonal
	for _, p := range ps {
		if p == nil {
			continue
		}
		var planar cgeom.Polygonal = toPlanar(p)
		if union == nil {
			union = planar
			continue
		}
		union = union.Union(planar)
	}
	return union
}

// UnionArea returns the area of the union of ps, rounded to CoordPrecision.
func UnionArea(ps []*geom.Polygon) float64 {
	union := unionAll(ps)
	if union == nil {
		return 0
	}
	return Round3(math.Abs(union.Area()))
}

// NonOverlappingArea returns the area covered by current that is not already
// covered by prior, rounded to CoordPrecision. Negative rounding artifacts
// are clamped to 0.
func NonOverlappingArea(current, prior []*geom.Polygon) float64 {
	cu := unionAll(current)
	if cu == nil {
		return 0
	}
	area := math.Abs(cu.Area())
	if pu := unionAll(prior); pu != nil {
		diff := cu.Difference(pu)
		if diff == nil {
			area = 0
		} else {
			area = math.Abs(diff.Area())
		}
	}
	if area < 0 {
		area = 0
	}
	return Round3(area)
}

// PolygonArea returns the area of a single stored polygon, rounded to
// CoordPrecision.
func PolygonArea(p *geom.Polygon) float64 {
	if p == nil {
		return 0
	}
	return Round3(math.Abs(p.Area()))
}
