package elevation

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// GridGeoid is a geoid model backed by a regular undulation grid, typically
// an extract of the EGM2008 2.5' grid covering the survey region.
type GridGeoid struct {
	name string
	grid *TileRaster
}

func NewGridGeoid(name string, grid *TileRaster) *GridGeoid {
	return &GridGeoid{name: name, grid: grid}
}

func (g *GridGeoid) Name() string { return g.name }

func (g *GridGeoid) Undulation(x, y float64) (float64, error) {
	if g.grid == nil {
		return 0, fmt.Errorf("geoid %q: no grid loaded", g.name)
	}
	return g.grid.Sample(x, y)
}

// LoadGeoidGrid reads an undulation grid file: four little-endian float64
// bounds (minX, minY, maxX, maxY), two uint32 dimensions (cols, rows), then
// cols*rows float64 values.
func LoadGeoidGrid(name, path string) (*GridGeoid, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	const header = 4*8 + 2*4
	if len(b) < header {
		return nil, fmt.Errorf("geoid grid %q: truncated header", path)
	}
	minX := math.Float64frombits(binary.LittleEndian.Uint64(b[0:]))
	minY := math.Float64frombits(binary.LittleEndian.Uint64(b[8:]))
	maxX := math.Float64frombits(binary.LittleEndian.Uint64(b[16:]))
	maxY := math.Float64frombits(binary.LittleEndian.Uint64(b[24:]))
	cols := int(binary.LittleEndian.Uint32(b[32:]))
	rows := int(binary.LittleEndian.Uint32(b[36:]))

	values, err := DecodeValues(b[header:])
	if err != nil {
		return nil, err
	}
	grid, err := NewTileRaster(name, minX, minY, maxX, maxY, cols, rows, values)
	if err != nil {
		return nil, err
	}
	return NewGridGeoid(name, grid), nil
}
