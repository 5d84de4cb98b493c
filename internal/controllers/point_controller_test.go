package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geosurvey/internal/engine"
	"geosurvey/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestApplyPointInputKeepsOmittedCoords(t *testing.T) {
	p := models.Point{Name: "T-1", X: fptr(1), Y: fptr(2), Z: fptr(3)}

	input := pointInput{Name: "T-1", Geometry: `{"type":"Point","coordinates":[10,20]}`}
	require.NoError(t, applyPointInput(&p, input))

	require.NotNil(t, p.X)
	assert.Equal(t, 1.0, *p.X)
	assert.Equal(t, 2.0, *p.Y)
	assert.Equal(t, 3.0, *p.Z)
	assert.NotEmpty(t, p.Geometry)
}

func TestApplyPointInputKeepsOmittedGeometry(t *testing.T) {
	p := models.Point{Name: "T-2", Geometry: []byte{1, 2, 3}}

	input := pointInput{Name: "T-2", X: fptr(5), Y: fptr(6)}
	require.NoError(t, applyPointInput(&p, input))

	assert.Equal(t, []byte{1, 2, 3}, p.Geometry)
	assert.Equal(t, 5.0, *p.X)
}

func TestGeometryOnlyUpdateRederivesCoords(t *testing.T) {
	e := engine.New(nil, nil)

	prev := models.Point{Name: "T-3", X: fptr(1), Y: fptr(2), Z: fptr(3)}
	require.NoError(t, e.SyncPoint(context.Background(), nil, &prev))

	// A PUT carrying only a new geometry: the untouched coordinates must come
	// through as unchanged so the synchronizer re-derives them from the
	// geometry instead of hitting the both-changed no-op branch.
	next := prev
	input := pointInput{Name: "T-3", Geometry: `{"type":"Point","coordinates":[10,20,999]}`}
	require.NoError(t, applyPointInput(&next, input))
	require.NoError(t, e.SyncPoint(context.Background(), &prev, &next))

	require.NotNil(t, next.X)
	assert.Equal(t, 10.0, *next.X)
	assert.Equal(t, 20.0, *next.Y)
	// Elevation comes from the surface model (0.0 without terrain coverage),
	// not from the z the supplied geometry carried.
	assert.Equal(t, 0.0, *next.Z)
}
