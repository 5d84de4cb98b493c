package engine

import (
	"errors"

	"geosurvey/internal/geometry"
)

// Validation failures abort the enclosing mutation; nothing derived is
// persisted. Callers match with errors.Is.
var (
	// ErrMalformedGeometry: wrong geometry type or dimensionality.
	ErrMalformedGeometry = geometry.ErrMalformedGeometry

	// ErrConstraintViolation: rectangle, linestring or naming-pattern
	// checks failed.
	ErrConstraintViolation = errors.New("geometry constraint violation")

	// ErrDuplicateValue: a set-valued column contains repeated entries.
	ErrDuplicateValue = errors.New("duplicate value in set column")

	// ErrImmutableRecord: attempted mutation of an append-only record.
	ErrImmutableRecord = errors.New("record is immutable")
)
