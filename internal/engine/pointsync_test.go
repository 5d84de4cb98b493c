package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosurvey/internal/geometry"
	"geosurvey/internal/models"
)

func fp(v float64) *float64 { return &v }

func TestSyncPointFromCoords(t *testing.T) {
	e := New(nil, nil)
	p := &models.Point{Name: "T-1", X: fp(7525000.1234), Y: fp(4874000.5678), Z: fp(112.9)}

	require.NoError(t, e.SyncPoint(context.Background(), nil, p))

	assert.Equal(t, 7525000.123, *p.X)
	assert.Equal(t, 4874000.568, *p.Y)
	assert.Equal(t, 112.9, *p.Z)
	require.NotEmpty(t, p.Geometry)

	pt, err := geometry.PointFromWKB(p.Geometry)
	require.NoError(t, err)
	x, y, z, err := geometry.CoordsFromPoint(pt)
	require.NoError(t, err)
	assert.Equal(t, *p.X, x)
	assert.Equal(t, *p.Y, y)
	assert.Equal(t, *p.Z, z)
}

func TestSyncPointResolvesMissingZ(t *testing.T) {
	// Without a resolver the elevation defaults to 0.0 (no terrain coverage).
	e := New(nil, nil)
	p := &models.Point{Name: "T-2", X: fp(10), Y: fp(20)}

	require.NoError(t, e.SyncPoint(context.Background(), nil, p))
	require.NotNil(t, p.Z)
	assert.Equal(t, 0.0, *p.Z)
}

func TestSyncPointFromGeometry(t *testing.T) {
	e := New(nil, nil)
	// The supplied geometry carries a z the surface model does not agree
	// with; the resolver's answer wins.
	encoded, err := geometry.MarshalWKB(geometry.PointFromCoords(10, 20, 999))
	require.NoError(t, err)
	p := &models.Point{Name: "T-3", Geometry: encoded}

	require.NoError(t, e.SyncPoint(context.Background(), nil, p))

	require.NotNil(t, p.X)
	assert.Equal(t, 10.0, *p.X)
	assert.Equal(t, 20.0, *p.Y)
	assert.Equal(t, 0.0, *p.Z)

	pt, err := geometry.PointFromWKB(p.Geometry)
	require.NoError(t, err)
	_, _, z, err := geometry.CoordsFromPoint(pt)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
}

func TestSyncPointCoordsUpdateWins(t *testing.T) {
	e := New(nil, nil)
	prev := &models.Point{Name: "T-4", X: fp(1), Y: fp(2), Z: fp(3)}
	require.NoError(t, e.SyncPoint(context.Background(), nil, prev))

	next := *prev
	next.X = fp(5)

	require.NoError(t, e.SyncPoint(context.Background(), prev, &next))
	assert.Equal(t, 5.0, *next.X)

	pt, err := geometry.PointFromWKB(next.Geometry)
	require.NoError(t, err)
	x, _, _, err := geometry.CoordsFromPoint(pt)
	require.NoError(t, err)
	assert.Equal(t, 5.0, x)
}

func TestSyncPointNoChangeIsStable(t *testing.T) {
	e := New(nil, nil)
	prev := &models.Point{Name: "T-5", X: fp(1), Y: fp(2), Z: fp(3)}
	require.NoError(t, e.SyncPoint(context.Background(), nil, prev))

	// Re-saving the identical record must not re-derive anything.
	next := *prev
	require.NoError(t, e.SyncPoint(context.Background(), prev, &next))
	assert.Equal(t, prev.Geometry, next.Geometry)
	assert.Equal(t, *prev.X, *next.X)
	assert.Equal(t, *prev.Z, *next.Z)
}

func TestSyncPointBothChangedIsNoOp(t *testing.T) {
	e := New(nil, nil)
	prev := &models.Point{Name: "T-6", X: fp(1), Y: fp(2), Z: fp(3)}
	require.NoError(t, e.SyncPoint(context.Background(), nil, prev))

	encoded, err := geometry.MarshalWKB(geometry.PointFromCoords(50, 60, 70))
	require.NoError(t, err)
	next := *prev
	next.X = fp(50)
	next.Y = fp(60)
	next.Z = fp(70)
	next.Geometry = encoded

	// Both sides supplied together are stored as given; no derivation can
	// feed back into itself.
	require.NoError(t, e.SyncPoint(context.Background(), prev, &next))
	assert.Equal(t, encoded, next.Geometry)
	assert.Equal(t, 50.0, *next.X)
}

func TestSyncPointBadGeometry(t *testing.T) {
	e := New(nil, nil)
	p := &models.Point{Name: "T-7", Geometry: []byte{0x01, 0x02}}

	err := e.SyncPoint(context.Background(), nil, p)
	assert.ErrorIs(t, err, ErrMalformedGeometry)
}
