package engine

import (
	"bytes"
	"context"

	"geosurvey/internal/geometry"
	"geosurvey/internal/models"
)

// SyncPoint reconciles a point's (x, y, z) columns with its stored geometry
// before the write is persisted. Exactly one side of the pair acts as the
// source per write:
//
//   - coordinates changed, geometry untouched: geometry is re-encoded from
//     the coordinates, resolving a missing z first;
//   - geometry changed, coordinates untouched: coordinates are decoded from
//     the geometry and z is re-resolved from its 2-D location, then the
//     geometry is re-encoded with the corrected z;
//   - both or neither changed: the write is persisted as given, which stops
//     any derivation from feeding back into itself.
//
// Elevation is resolved at most once per write.
func (e *Engine) SyncPoint(ctx context.Context, prev, next *models.Point) error {
	coordsChanged := prev == nil && hasCoords(next) ||
		prev != nil && !(floatPtrEq(prev.X, next.X) && floatPtrEq(prev.Y, next.Y) && floatPtrEq(prev.Z, next.Z))
	geomChanged := prev == nil && len(next.Geometry) > 0 ||
		prev != nil && !bytes.Equal(prev.Geometry, next.Geometry)

	switch {
	case coordsChanged && !geomChanged:
		return e.syncFromCoords(ctx, next)
	case geomChanged && !coordsChanged:
		return e.syncFromGeometry(ctx, next)
	default:
		return nil
	}
}

func (e *Engine) syncFromCoords(ctx context.Context, p *models.Point) error {
	if p.X == nil || p.Y == nil {
		return nil
	}
	x, y := geometry.Round3(*p.X), geometry.Round3(*p.Y)
	if p.Z == nil {
		z, err := e.resolveElevation(ctx, x, y)
		if err != nil {
			return err
		}
		p.Z = &z
	} else {
		z := geometry.Round3(*p.Z)
		p.Z = &z
	}
	p.X, p.Y = &x, &y

	encoded, err := geometry.MarshalWKB(geometry.PointFromCoords(x, y, *p.Z))
	if err != nil {
		return err
	}
	p.Geometry = encoded
	return nil
}

func (e *Engine) syncFromGeometry(ctx context.Context, p *models.Point) error {
	pt, err := geometry.PointFromWKB(p.Geometry)
	if err != nil {
		return err
	}
	if pt == nil {
		return nil
	}
	x, y, _, err := geometry.CoordsFromPoint(pt)
	if err != nil {
		return err
	}

	// Elevation comes from the surface model, not from whatever z the
	// supplied geometry happened to carry.
	z, err := e.resolveElevation(ctx, x, y)
	if err != nil {
		return err
	}
	p.X, p.Y, p.Z = &x, &y, &z

	encoded, err := geometry.MarshalWKB(geometry.PointFromCoords(x, y, z))
	if err != nil {
		return err
	}
	p.Geometry = encoded
	return nil
}

func (e *Engine) resolveElevation(ctx context.Context, x, y float64) (float64, error) {
	if e.elev == nil {
		return 0.0, nil
	}
	return e.elev.Resolve(ctx, x, y)
}

func hasCoords(p *models.Point) bool {
	return p.X != nil || p.Y != nil || p.Z != nil
}

func floatPtrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
