package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func rect(t *testing.T, ring []geom.Coord) *geom.Polygon {
	t.Helper()
	p, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	require.NoError(t, err)
	return p
}

// surveyRect is a 10 m wide, 20 m long rectangle with corner 1 at the origin.
func surveyRect(t *testing.T) *geom.Polygon {
	return rect(t, []geom.Coord{{0, 0}, {0, 20}, {10, 20}, {10, 0}, {0, 0}})
}

func TestPrepareFieldMagDerivations(t *testing.T) {
	e := New(nil, nil)
	rec := FieldRecord{
		Modality:     ModalityMag,
		Name:         "Polje 1",
		OriginCorner: 1,
		Polygon:      surveyRect(t),
	}

	require.NoError(t, e.PrepareField(&rec))
	assert.Equal(t, 200.0, rec.Area)
	assert.Equal(t, 0.0, rec.OriginX)
	assert.Equal(t, 0.0, rec.OriginY)
	// Walking toward the next ring vertex (0, 20): due north.
	assert.InDelta(t, 0, rec.OriginAngle, 1e-9)
	assert.Equal(t, 20, rec.ProfileLength)
	assert.Equal(t, 10, rec.ProfileWidth)
}

func TestPrepareFieldGprReverseAngle(t *testing.T) {
	e := New(nil, nil)
	rec := FieldRecord{
		Modality:     ModalityGpr,
		Name:         "Polje 1",
		FileName:     "DAT_0042",
		OriginCorner: 1,
		Polygon:      surveyRect(t),
	}

	require.NoError(t, e.PrepareField(&rec))
	// The radar walks toward the previous ring vertex (10, 0): due east.
	assert.InDelta(t, math.Pi/2, rec.OriginAngle, 1e-9)
	assert.Equal(t, 0, rec.ProfileLength)
	assert.Equal(t, 0, rec.ProfileWidth)
}

func TestPrepareFieldCornerThree(t *testing.T) {
	e := New(nil, nil)
	rec := FieldRecord{
		Modality:     ModalityMag,
		Name:         "Polje 2",
		OriginCorner: 3,
		Polygon:      surveyRect(t),
	}

	require.NoError(t, e.PrepareField(&rec))
	assert.Equal(t, 10.0, rec.OriginX)
	assert.Equal(t, 20.0, rec.OriginY)
	// Corner 3 is (10, 20); the next corner is (10, 0): due south.
	assert.InDelta(t, math.Pi, rec.OriginAngle, 1e-9)
}

func TestPrepareFieldNamePatterns(t *testing.T) {
	e := New(nil, nil)
	for _, name := range []string{"Polje 1", "Polje 42", "12ab", "3c"} {
		rec := FieldRecord{Modality: ModalityMag, Name: name, OriginCorner: 1, Polygon: surveyRect(t)}
		assert.NoError(t, e.PrepareField(&rec), name)
	}
	for _, name := range []string{"polje 1", "Polje", "Field 1", "ab12", ""} {
		rec := FieldRecord{Modality: ModalityMag, Name: name, OriginCorner: 1, Polygon: surveyRect(t)}
		assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation, name)
	}
}

func TestPrepareFieldGprFileName(t *testing.T) {
	e := New(nil, nil)
	rec := FieldRecord{Modality: ModalityGpr, Name: "Polje 1", FileName: "dat_0042", OriginCorner: 1, Polygon: surveyRect(t)}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation)

	rec.FileName = "DAT_0042"
	assert.NoError(t, e.PrepareField(&rec))
}

func TestPrepareFieldBadRows(t *testing.T) {
	e := New(nil, nil)

	rec := FieldRecord{Modality: ModalityMag, Name: "Polje 1", OriginCorner: 1, BadRows: []int64{3, 7, 3}, Polygon: surveyRect(t)}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrDuplicateValue)

	rec.BadRows = []int64{0, 1}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation)

	rec.BadRows = []int64{1, 2, 5}
	assert.NoError(t, e.PrepareField(&rec))
}

func TestPrepareFieldRejections(t *testing.T) {
	e := New(nil, nil)

	rec := FieldRecord{Modality: ModalityMag, Name: "Polje 1", OriginCorner: 5, Polygon: surveyRect(t)}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation)

	rec = FieldRecord{Modality: ModalityMag, Name: "Polje 1", OriginCorner: 1}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrMalformedGeometry)

	rec = FieldRecord{Modality: ModalityMag, Name: "Polje 1", OriginCorner: 1, ShiftX: -0.5, Polygon: surveyRect(t)}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation)

	skewed := rect(t, []geom.Coord{{0, 0}, {0, 20}, {14, 20}, {10, 0}, {0, 0}})
	rec = FieldRecord{Modality: ModalityMag, Name: "Polje 1", OriginCorner: 1, Polygon: skewed}
	assert.ErrorIs(t, e.PrepareField(&rec), ErrConstraintViolation)
}

func TestPrepareProfile(t *testing.T) {
	e := New(nil, nil)
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 3, 4})

	rec := ProfileRecord{Modality: ModalityMag, Name: "Profil 7", Line: line}
	require.NoError(t, e.PrepareProfile(&rec))
	assert.Equal(t, 5.0, rec.Length)
}

func TestPrepareProfileRejections(t *testing.T) {
	e := New(nil, nil)
	line := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 3, 4})

	rec := ProfileRecord{Modality: ModalityMag, Name: "Profile 7", Line: line}
	assert.ErrorIs(t, e.PrepareProfile(&rec), ErrConstraintViolation)

	threePoints := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1, 2, 2})
	rec = ProfileRecord{Modality: ModalityMag, Name: "Profil 7", Line: threePoints}
	assert.ErrorIs(t, e.PrepareProfile(&rec), ErrConstraintViolation)

	rec = ProfileRecord{Modality: ModalityGpr, Name: "Profil 7", FileName: "bad_name", Line: line}
	assert.ErrorIs(t, e.PrepareProfile(&rec), ErrConstraintViolation)

	rec = ProfileRecord{Modality: ModalityMag, Name: "Profil 7"}
	assert.ErrorIs(t, e.PrepareProfile(&rec), ErrMalformedGeometry)
}

func TestCornerIndex(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4} {
		c, err := NewCornerIndex(n)
		require.NoError(t, err)
		assert.Equal(t, CornerIndex(n), c)
	}
	for _, n := range []int{0, 5, -1} {
		_, err := NewCornerIndex(n)
		assert.ErrorIs(t, err, ErrConstraintViolation)
	}

	c, _ := NewCornerIndex(4)
	assert.Equal(t, CornerIndex(1), c.Next())
	c, _ = NewCornerIndex(1)
	assert.Equal(t, CornerIndex(4), c.Prev())
}

func TestModality(t *testing.T) {
	assert.True(t, ModalityMag.Valid())
	assert.True(t, ModalityGpr.Valid())
	assert.False(t, Modality(0).Valid())
	assert.True(t, ModalityMag.Forward())
	assert.False(t, ModalityGpr.Forward())
}
