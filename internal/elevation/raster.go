package elevation

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TileRaster is a regular elevation grid covering a rectangular footprint.
// Values are stored row-major, row 0 at the minimum y edge. Sampling uses
// bilinear interpolation between cell centers.
type TileRaster struct {
	Name                   string
	MinX, MinY, MaxX, MaxY float64
	Cols, Rows             int
	Values                 []float64
}

// NewTileRaster validates the grid dimensions against the value count.
func NewTileRaster(name string, minX, minY, maxX, maxY float64, cols, rows int, values []float64) (*TileRaster, error) {
	if cols < 1 || rows < 1 || len(values) != cols*rows {
		return nil, fmt.Errorf("raster %q: %d values for %dx%d grid", name, len(values), cols, rows)
	}
	if maxX <= minX || maxY <= minY {
		return nil, fmt.Errorf("raster %q: empty footprint", name)
	}
	return &TileRaster{
		Name: name,
		MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY,
		Cols: cols, Rows: rows,
		Values: values,
	}, nil
}

func (t *TileRaster) Contains(x, y float64) bool {
	return x >= t.MinX && x <= t.MaxX && y >= t.MinY && y <= t.MaxY
}

func (t *TileRaster) FootprintArea() float64 {
	return (t.MaxX - t.MinX) * (t.MaxY - t.MinY)
}

func (t *TileRaster) Sample(x, y float64) (float64, error) {
	if !t.Contains(x, y) {
		return 0, fmt.Errorf("raster %q: (%g, %g) outside footprint", t.Name, x, y)
	}
	cw := (t.MaxX - t.MinX) / float64(t.Cols)
	ch := (t.MaxY - t.MinY) / float64(t.Rows)

	// Fractional cell-center coordinates, clamped to the outermost centers.
	fx := (x-t.MinX)/cw - 0.5
	fy := (y-t.MinY)/ch - 0.5
	fx = math.Min(math.Max(fx, 0), float64(t.Cols-1))
	fy = math.Min(math.Max(fy, 0), float64(t.Rows-1))

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := int(math.Min(float64(x0+1), float64(t.Cols-1)))
	y1 := int(math.Min(float64(y0+1), float64(t.Rows-1)))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	v00 := t.Values[y0*t.Cols+x0]
	v10 := t.Values[y0*t.Cols+x1]
	v01 := t.Values[y1*t.Cols+x0]
	v11 := t.Values[y1*t.Cols+x1]

	top := v00*(1-dx) + v10*dx
	bottom := v01*(1-dx) + v11*dx
	return top*(1-dy) + bottom*dy, nil
}

// EncodeValues packs a grid into the bytea column format (little-endian
// float64s).
func EncodeValues(values []float64) []byte {
	out := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}

// DecodeValues unpacks a bytea grid blob.
func DecodeValues(b []byte) ([]float64, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("raster blob length %d is not a multiple of 8", len(b))
	}
	out := make([]float64, len(b)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out, nil
}
