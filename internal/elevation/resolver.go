package elevation

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"geosurvey/internal/geometry"
)

// FallbackUndulation is the constant geoid undulation (in meters) subtracted
// from the ellipsoidal height when no geoid model can be evaluated.
const FallbackUndulation = 43.0

// Raster is a sampled terrain-height surface.
type Raster interface {
	// Sample returns the ellipsoidal height at (x, y).
	Sample(x, y float64) (float64, error)
	// FootprintArea returns the area of the raster's bounding footprint,
	// used as the deterministic tie-break when several rasters intersect a
	// query point.
	FootprintArea() float64
}

// RasterStore finds rasters whose footprint contains a location.
type RasterStore interface {
	Intersecting(ctx context.Context, x, y float64) ([]Raster, error)
}

// Geoid converts between ellipsoidal and orthometric heights by reporting the
// geoid undulation at a location.
type Geoid interface {
	Name() string
	Undulation(x, y float64) (float64, error)
}

// Resolver produces orthometric elevations for 2-D locations. Geoid models
// are tried in order; when all of them fail the resolver degrades to the
// constant FallbackUndulation offset and logs a warning instead of failing.
type Resolver struct {
	rasters RasterStore
	geoids  []Geoid
}

func NewResolver(rasters RasterStore, geoids ...Geoid) *Resolver {
	return &Resolver{rasters: rasters, geoids: geoids}
}

// Resolve returns the orthometric elevation at (x, y), rounded to 3 decimal
// places. A location outside every raster yields exactly 0.0; this mirrors
// the source data convention, where missing terrain coverage means
// sea-level-equivalent, not an error.
func (r *Resolver) Resolve(ctx context.Context, x, y float64) (float64, error) {
	raster, err := r.pick(ctx, x, y)
	if err != nil {
		return 0, err
	}
	if raster == nil {
		return 0.0, nil
	}

	ellipsoidal, err := raster.Sample(x, y)
	if err != nil {
		return 0, err
	}

	for _, g := range r.geoids {
		undulation, err := g.Undulation(x, y)
		if err != nil {
			logrus.WithError(err).WithField("geoid", g.Name()).Debug("geoid model failed, trying next")
			continue
		}
		return geometry.Round3(ellipsoidal - undulation), nil
	}

	logrus.WithFields(logrus.Fields{"x": x, "y": y}).
		Warnf("no geoid model available, using approximate undulation %.1f", FallbackUndulation)
	return geometry.Round3(ellipsoidal - FallbackUndulation), nil
}

// pick selects the intersecting raster with the smallest footprint.
func (r *Resolver) pick(ctx context.Context, x, y float64) (Raster, error) {
	if r.rasters == nil {
		return nil, nil
	}
	candidates, err := r.rasters.Intersecting(ctx, x, y)
	if err != nil {
		return nil, err
	}
	var best Raster
	bestArea := math.Inf(1)
	for _, c := range candidates {
		if a := c.FootprintArea(); a < bestArea {
			best, bestArea = c, a
		}
	}
	return best, nil
}
