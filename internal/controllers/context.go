package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"geosurvey/internal/elevation"
	"geosurvey/internal/engine"
	"geosurvey/internal/store"
)

// elevResolver is shared by all request-scoped engines. Raster reads do not
// depend on the mutation's transaction, so the resolver is built once at
// startup.
var elevResolver *elevation.Resolver

// Setup wires the elevation resolver used by the mutation pipeline.
func Setup(resolver *elevation.Resolver) {
	elevResolver = resolver
}

// engineFor returns a derivation engine bound to the given transaction, so
// the ledger cascade and aggregate updates commit or roll back together with
// the triggering write.
func engineFor(tx *gorm.DB) *engine.Engine {
	return engine.New(store.NewSurveyStore(tx), elevResolver)
}

// statusForEngineError maps the engine error taxonomy onto HTTP statuses.
func statusForEngineError(err error) int {
	switch {
	case errors.Is(err, engine.ErrImmutableRecord):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrMalformedGeometry),
		errors.Is(err, engine.ErrConstraintViolation),
		errors.Is(err, engine.ErrDuplicateValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
