package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func box(t *testing.T, minX, minY, maxX, maxY float64) *geom.Polygon {
	return polygon(t, []geom.Coord{
		{minX, minY}, {minX, maxY}, {maxX, maxY}, {maxX, minY}, {minX, minY},
	})
}

func TestPolygonArea(t *testing.T) {
	assert.Equal(t, 10.0, PolygonArea(box(t, 0, 0, 5, 2)))
	assert.Equal(t, 0.0, PolygonArea(nil))
}

func TestUnionAreaMergesOverlap(t *testing.T) {
	// Two 2x2 squares overlapping in a 1x2 strip: 4 + 4 - 2.
	area := UnionArea([]*geom.Polygon{
		box(t, 0, 0, 2, 2),
		box(t, 1, 0, 3, 2),
	})
	assert.InDelta(t, 6, area, 0.001)
}

func TestUnionAreaAccumulatesManyPolygons(t *testing.T) {
	// Three squares in a row, each overlapping its neighbour by a 1x2 strip:
	// 3*4 - 2*2.
	area := UnionArea([]*geom.Polygon{
		box(t, 0, 0, 2, 2),
		box(t, 1, 0, 3, 2),
		box(t, 2, 0, 4, 2),
	})
	assert.InDelta(t, 8, area, 0.001)
}

func TestNonOverlappingAreaMultiplePriors(t *testing.T) {
	// Prior unions accumulate across several polygons before the difference.
	area := NonOverlappingArea(
		[]*geom.Polygon{box(t, 0, 0, 4, 2), box(t, 4, 0, 8, 2)},
		[]*geom.Polygon{box(t, 0, 0, 2, 2), box(t, 6, 0, 8, 2)},
	)
	assert.InDelta(t, 8, area, 0.001)
}

func TestNonOverlappingAreaNoPrior(t *testing.T) {
	area := NonOverlappingArea([]*geom.Polygon{box(t, 0, 0, 5, 2)}, nil)
	assert.InDelta(t, 10, area, 0.001)
}

func TestNonOverlappingAreaFullOverlap(t *testing.T) {
	area := NonOverlappingArea(
		[]*geom.Polygon{box(t, 0, 0, 5, 2)},
		[]*geom.Polygon{box(t, 0, 0, 5, 2)},
	)
	assert.InDelta(t, 0, area, 0.001)
}

func TestNonOverlappingAreaPartialOverlap(t *testing.T) {
	// Current 4x4 square, prior covers its left half.
	area := NonOverlappingArea(
		[]*geom.Polygon{box(t, 0, 0, 4, 4)},
		[]*geom.Polygon{box(t, -2, 0, 2, 4)},
	)
	assert.InDelta(t, 8, area, 0.001)
}

func TestNonOverlappingAreaEmptyCurrent(t *testing.T) {
	area := NonOverlappingArea(nil, []*geom.Polygon{box(t, 0, 0, 4, 4)})
	assert.Equal(t, 0.0, area)
}
