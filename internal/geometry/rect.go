package geometry

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
)

// RectTolerance bounds both the allowed deviation of the area ratio between a
// polygon and its oriented envelope and the allowed deviation of interior
// angles from a right angle.
const RectTolerance = 1e-4

// rectRingCoords is the coordinate count of a closed 4-corner exterior ring.
const rectRingCoords = 5

// Azimuth returns the compass bearing from a to b in radians: 0 points north
// (+y), increasing clockwise, normalized to [0, 2*pi).
func Azimuth(a, b geom.Coord) float64 {
	az := math.Atan2(b[0]-a[0], b[1]-a[1])
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}

// Distance returns the planar distance between a and b.
func Distance(a, b geom.Coord) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// angleAt returns the angle at vertex p2 formed by p1-p2-p3, measured as the
// clockwise sweep from the bearing to p1 onto the bearing to p3, in [0, 2*pi).
func angleAt(p1, p2, p3 geom.Coord) float64 {
	ang := Azimuth(p2, p3) - Azimuth(p2, p1)
	if ang < 0 {
		ang += 2 * math.Pi
	}
	return ang
}

// ValidateRectangle checks that p is a simple closed quadrilateral whose area
// matches its oriented envelope within RectTolerance and whose interior
// angles are all right angles.
func ValidateRectangle(p *geom.Polygon) error {
	ring, err := exteriorRing(p)
	if err != nil {
		return err
	}
	if len(ring) != rectRingCoords {
		return fmt.Errorf("polygon ring has %d coordinates, want %d", len(ring), rectRingCoords)
	}
	if !coordEqual(ring[0], ring[len(ring)-1]) {
		return fmt.Errorf("polygon ring is not closed")
	}
	corners := ring[:4]
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if coordEqual(corners[i], corners[j]) {
				return fmt.Errorf("polygon corners %d and %d coincide", i+1, j+1)
			}
		}
	}

	area := math.Abs(ringArea(corners))
	envArea := orientedEnvelopeArea(corners)
	if envArea == 0 {
		return fmt.Errorf("polygon is degenerate")
	}
	if math.Abs(1-area/envArea) >= RectTolerance {
		return fmt.Errorf("polygon is not rectangular: area ratio deviation %g", math.Abs(1-area/envArea))
	}

	for i := range corners {
		prev := corners[(i+3)%4]
		next := corners[(i+1)%4]
		ang := angleAt(prev, corners[i], next)
		if math.Abs(ang-math.Pi/2) >= RectTolerance && math.Abs(ang-3*math.Pi/2) >= RectTolerance {
			return fmt.Errorf("corner %d angle %g rad is not a right angle", i+1, ang)
		}
	}
	return nil
}

// RectCorners returns the rectangle's 4 corners in canonical order: oriented
// clockwise (y up) and rotated so the vertex with the smallest x (smallest y
// on ties) comes first. Corner indices 1..4 reference this ordering.
func RectCorners(p *geom.Polygon) ([4]geom.Coord, error) {
	var out [4]geom.Coord
	ring, err := exteriorRing(p)
	if err != nil {
		return out, err
	}
	if len(ring) != rectRingCoords {
		return out, fmt.Errorf("polygon ring has %d coordinates, want %d", len(ring), rectRingCoords)
	}
	corners := make([]geom.Coord, 4)
	copy(corners, ring[:4])

	// Clockwise with y up means negative signed area.
	if ringArea(corners) > 0 {
		corners[1], corners[3] = corners[3], corners[1]
	}

	start := 0
	for i := 1; i < 4; i++ {
		if corners[i][0] < corners[start][0] ||
			(corners[i][0] == corners[start][0] && corners[i][1] < corners[start][1]) {
			start = i
		}
	}
	for i := 0; i < 4; i++ {
		out[i] = corners[(start+i)%4]
	}
	return out, nil
}

func exteriorRing(p *geom.Polygon) ([]geom.Coord, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil polygon", ErrMalformedGeometry)
	}
	if p.NumLinearRings() != 1 {
		return nil, fmt.Errorf("%w: polygon has %d rings, want 1", ErrMalformedGeometry, p.NumLinearRings())
	}
	return p.LinearRing(0).Coords(), nil
}

func coordEqual(a, b geom.Coord) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// ringArea returns the signed shoelace area of an unclosed vertex list.
// Positive means counterclockwise with y up.
func ringArea(pts []geom.Coord) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}

// orientedEnvelopeArea returns the area of the minimum rotated bounding
// rectangle of pts, computed by rotating calipers over the convex hull.
func orientedEnvelopeArea(pts []geom.Coord) float64 {
	hull := convexHull(pts)
	if len(hull) < 3 {
		return 0
	}
	best := math.Inf(1)
	for i := range hull {
		j := (i + 1) % len(hull)
		ux := hull[j][0] - hull[i][0]
		uy := hull[j][1] - hull[i][1]
		norm := math.Hypot(ux, uy)
		if norm == 0 {
			continue
		}
		ux /= norm
		uy /= norm

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			u := p[0]*ux + p[1]*uy
			v := -p[0]*uy + p[1]*ux
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		if a := (maxU - minU) * (maxV - minV); a < best {
			best = a
		}
	}
	return best
}

// convexHull returns the convex hull of pts in counterclockwise order
// (Andrew's monotone chain).
func convexHull(pts []geom.Coord) []geom.Coord {
	if len(pts) < 3 {
		return pts
	}
	sorted := make([]geom.Coord, len(pts))
	copy(sorted, pts)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			if sorted[j][0] < sorted[j-1][0] ||
				(sorted[j][0] == sorted[j-1][0] && sorted[j][1] < sorted[j-1][1]) {
				sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			} else {
				break
			}
		}
	}

	cross := func(o, a, b geom.Coord) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower []geom.Coord
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []geom.Coord
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
