package elevation

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRasterStore returns the configured rasters that contain the query point.
type fakeRasterStore struct {
	tiles []*TileRaster
}

func (s *fakeRasterStore) Intersecting(_ context.Context, x, y float64) ([]Raster, error) {
	var out []Raster
	for _, t := range s.tiles {
		if t.Contains(x, y) {
			out = append(out, t)
		}
	}
	return out, nil
}

type failingGeoid struct{ name string }

func (g *failingGeoid) Name() string { return g.name }
func (g *failingGeoid) Undulation(x, y float64) (float64, error) {
	return 0, errors.New("grid not loaded")
}

func constantTile(t *testing.T, name string, minX, minY, maxX, maxY, value float64) *TileRaster {
	t.Helper()
	tile, err := NewTileRaster(name, minX, minY, maxX, maxY, 2, 2, []float64{value, value, value, value})
	require.NoError(t, err)
	return tile
}

func TestResolveNoRasterIsZero(t *testing.T) {
	r := NewResolver(&fakeRasterStore{})

	z, err := r.Resolve(context.Background(), 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
}

func TestResolveNilStoreIsZero(t *testing.T) {
	r := NewResolver(nil)

	z, err := r.Resolve(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, z)
}

func TestResolveSmallestFootprintWins(t *testing.T) {
	store := &fakeRasterStore{tiles: []*TileRaster{
		constantTile(t, "coarse", 0, 0, 100, 100, 200),
		constantTile(t, "fine", 0, 0, 10, 10, 150),
	}}
	geoid := NewGridGeoid("flat", constantTile(t, "flat", 0, 0, 100, 100, 20))
	r := NewResolver(store, geoid)

	z, err := r.Resolve(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 130.0, z)
}

func TestResolveGeoidChainFallsThrough(t *testing.T) {
	store := &fakeRasterStore{tiles: []*TileRaster{
		constantTile(t, "dem", 0, 0, 10, 10, 100),
	}}
	secondary := NewGridGeoid("secondary", constantTile(t, "secondary", 0, 0, 10, 10, 25))
	r := NewResolver(store, &failingGeoid{name: "primary"}, secondary)

	z, err := r.Resolve(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 75.0, z)
}

func TestResolveConstantFallback(t *testing.T) {
	store := &fakeRasterStore{tiles: []*TileRaster{
		constantTile(t, "dem", 0, 0, 10, 10, 100),
	}}
	r := NewResolver(store, &failingGeoid{name: "primary"}, &failingGeoid{name: "secondary"})

	z, err := r.Resolve(context.Background(), 5, 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0-FallbackUndulation, z)
}

func TestTileRasterBilinearSample(t *testing.T) {
	tile, err := NewTileRaster("grid", 0, 0, 2, 2, 2, 2, []float64{0, 10, 20, 30})
	require.NoError(t, err)

	// Center of the footprint sits exactly between the four cell centers.
	v, err := tile.Sample(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 15, v, 1e-9)

	// Corners clamp to the nearest cell center.
	v, err = tile.Sample(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, v, 1e-9)

	_, err = tile.Sample(5, 5)
	assert.Error(t, err)
}

func TestNewTileRasterRejectsBadDimensions(t *testing.T) {
	_, err := NewTileRaster("bad", 0, 0, 1, 1, 2, 2, []float64{1, 2, 3})
	assert.Error(t, err)

	_, err = NewTileRaster("bad", 1, 1, 1, 1, 1, 1, []float64{1})
	assert.Error(t, err)
}

func TestLoadGeoidGrid(t *testing.T) {
	values := []float64{40, 41, 42, 43}
	buf := make([]byte, 0, 40+8*len(values))
	for _, f := range []float64{0, 0, 2, 2} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = binary.LittleEndian.AppendUint32(buf, 2)
	buf = append(buf, EncodeValues(values)...)

	path := filepath.Join(t.TempDir(), "egm08_25.grid")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	geoid, err := LoadGeoidGrid("egm08_25", path)
	require.NoError(t, err)
	assert.Equal(t, "egm08_25", geoid.Name())

	n, err := geoid.Undulation(1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 41.5, n, 1e-9)
}

func TestLoadGeoidGridMissingFile(t *testing.T) {
	_, err := LoadGeoidGrid("none", filepath.Join(t.TempDir(), "missing.grid"))
	assert.Error(t, err)
}
