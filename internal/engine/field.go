package engine

import (
	"fmt"
	"math"
	"regexp"

	"github.com/twpayne/go-geom"

	"geosurvey/internal/geometry"
)

// Naming conventions carried over from the survey archive.
var (
	fieldNameRe   = regexp.MustCompile(`^Polje \d+$|^\d+[a-z]+$`)
	profileNameRe = regexp.MustCompile(`^Profil \d+$`)
	gprFileNameRe = regexp.MustCompile(`^[^a-z]*$`)
)

// FieldRecord is the modality-neutral view of a field write. PrepareField
// validates the record and fills the derived fields in place; nothing is
// persisted here.
type FieldRecord struct {
	Modality     Modality
	Name         string
	FileName     string // gpr only
	OriginCorner int
	ShiftX       float64
	ShiftY       float64
	BadRows      []int64 // mag only
	Polygon      *geom.Polygon

	// Derived.
	Area          float64
	OriginX       float64
	OriginY       float64
	OriginAngle   float64
	ProfileLength int // mag only
	ProfileWidth  int // mag only
}

// PrepareField runs validation and corner/angle/dimension derivation for a
// field insert or update. Any error rejects the whole write.
func (e *Engine) PrepareField(rec *FieldRecord) error {
	if !rec.Modality.Valid() {
		return fmt.Errorf("%w: unknown modality %d", ErrConstraintViolation, rec.Modality)
	}
	if !fieldNameRe.MatchString(rec.Name) {
		return fmt.Errorf("%w: field name %q", ErrConstraintViolation, rec.Name)
	}
	if rec.Modality == ModalityGpr && rec.FileName != "" && !gprFileNameRe.MatchString(rec.FileName) {
		return fmt.Errorf("%w: gpr file name %q must not contain lowercase letters", ErrConstraintViolation, rec.FileName)
	}
	if rec.ShiftX < 0 || rec.ShiftY < 0 {
		return fmt.Errorf("%w: shift corrections must be non-negative", ErrConstraintViolation)
	}
	if err := checkBadRows(rec.BadRows); err != nil {
		return err
	}

	corner, err := NewCornerIndex(rec.OriginCorner)
	if err != nil {
		return err
	}
	if rec.Polygon == nil {
		return fmt.Errorf("%w: field has no geometry", ErrMalformedGeometry)
	}
	if err := geometry.ValidateRectangle(rec.Polygon); err != nil {
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	}

	corners, err := geometry.RectCorners(rec.Polygon)
	if err != nil {
		return err
	}
	origin := corners[corner-1]
	rec.OriginX = origin[0]
	rec.OriginY = origin[1]

	// The magnetometer is walked toward the next ring vertex, the radar
	// toward the previous one.
	var adjacent geom.Coord
	if rec.Modality.Forward() {
		adjacent = corners[corner.Next()-1]
	} else {
		adjacent = corners[corner.Prev()-1]
	}
	rec.OriginAngle = geometry.Azimuth(origin, adjacent)

	if rec.Modality == ModalityMag {
		next := corners[corner.Next()-1]
		prev := corners[corner.Prev()-1]
		rec.ProfileLength = int(math.Round(geometry.Distance(origin, next)))
		rec.ProfileWidth = int(math.Round(geometry.Distance(origin, prev)))
	}

	rec.Area = geometry.PolygonArea(rec.Polygon)
	return nil
}

func checkBadRows(rows []int64) error {
	seen := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		if r <= 0 {
			return fmt.Errorf("%w: bad row number %d must be positive", ErrConstraintViolation, r)
		}
		if _, dup := seen[r]; dup {
			return fmt.Errorf("%w: bad row %d listed twice", ErrDuplicateValue, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// ProfileRecord is the modality-neutral view of a transect write.
type ProfileRecord struct {
	Modality Modality
	Name     string
	FileName string // gpr only
	Line     *geom.LineString

	// Derived.
	Length float64
}

// PrepareProfile validates a transect and derives its length.
func (e *Engine) PrepareProfile(rec *ProfileRecord) error {
	if !rec.Modality.Valid() {
		return fmt.Errorf("%w: unknown modality %d", ErrConstraintViolation, rec.Modality)
	}
	if !profileNameRe.MatchString(rec.Name) {
		return fmt.Errorf("%w: profile name %q", ErrConstraintViolation, rec.Name)
	}
	if rec.Modality == ModalityGpr && rec.FileName != "" && !gprFileNameRe.MatchString(rec.FileName) {
		return fmt.Errorf("%w: gpr file name %q must not contain lowercase letters", ErrConstraintViolation, rec.FileName)
	}
	if rec.Line == nil {
		return fmt.Errorf("%w: profile has no geometry", ErrMalformedGeometry)
	}
	if rec.Line.NumCoords() != 2 {
		return fmt.Errorf("%w: profile linestring has %d points, want 2", ErrConstraintViolation, rec.Line.NumCoords())
	}
	rec.Length = geometry.Round3(rec.Line.Length())
	return nil
}
