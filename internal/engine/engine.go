package engine

import (
	"context"
	"time"

	"github.com/twpayne/go-geom"

	"geosurvey/internal/elevation"
	"geosurvey/internal/geometry"
)

// Store is the record-layer access the engine needs. All reads and writes of
// one engine call are expected to run inside the transaction of the
// triggering mutation; implementations bound to a gorm transaction satisfy
// that.
type Store interface {
	// FieldPolygonsBefore returns the geometries of all fields of the
	// project and modality recorded strictly before day.
	FieldPolygonsBefore(ctx context.Context, projectID uint, m Modality, day time.Time) ([]*geom.Polygon, error)
	// FieldPolygonsOn returns the geometries of all fields of the project
	// and modality recorded on day.
	FieldPolygonsOn(ctx context.Context, projectID uint, m Modality, day time.Time) ([]*geom.Polygon, error)
	// SumFieldAreas returns the plain sum of the areas of the project's
	// fields of one modality.
	SumFieldAreas(ctx context.Context, projectID uint, m Modality) (float64, error)
	// HasFieldOnOrAfter reports whether any field of either modality
	// remains for the project on or after day.
	HasFieldOnOrAfter(ctx context.Context, projectID uint, day time.Time) (bool, error)
	// EntryDatesFrom returns the dates of the project's coverage entries
	// at (inclusive) or after day, in ascending order.
	EntryDatesFrom(ctx context.Context, projectID uint, day time.Time, inclusive bool) ([]time.Time, error)
	// UpsertEntry stores both modality values of the (project, day) entry.
	UpsertEntry(ctx context.Context, projectID uint, day time.Time, areaMag, areaGpr float64) error
	// DeleteEntry removes an orphaned entry; missing rows are not an error.
	DeleteEntry(ctx context.Context, projectID uint, day time.Time) error
	// SetProjectTotal stores a project's derived total area for one
	// modality.
	SetProjectTotal(ctx context.Context, projectID uint, m Modality, total float64) error
}

// Engine is the derived-state consistency pipeline. Within one mutation the
// stages run in a fixed order: point sync / validation / corner derivation
// happen before the write (Prepare*), ledger cascade and aggregate
// recomputation after it (CommitFieldChange).
type Engine struct {
	store  Store
	elev   *elevation.Resolver
	ledger *CoverageLedger
	agg    *ProjectAggregator
}

func New(store Store, elev *elevation.Resolver) *Engine {
	return &Engine{
		store:  store,
		elev:   elev,
		ledger: &CoverageLedger{store: store},
		agg:    &ProjectAggregator{store: store},
	}
}

// Ledger exposes the coverage ledger, mainly for read-side recomputation
// checks in tests.
func (e *Engine) Ledger() *CoverageLedger { return e.ledger }

// ChangeOp is the kind of field mutation being committed.
type ChangeOp int

const (
	OpInsert ChangeOp = iota + 1
	OpUpdate
	OpDelete
)

// FieldChange describes a committed field mutation for the accounting
// stages. OldDate and OldProjectID carry the before-image on updates; both
// are zero-valued for inserts.
type FieldChange struct {
	Op           ChangeOp
	Modality     Modality
	ProjectID    uint
	OldProjectID uint
	Date         *time.Time
	OldDate      *time.Time
}

// CommitFieldChange runs the post-write stages: the coverage ledger cascade,
// then the project total recomputation. Must be called inside the same
// transaction as the field write itself.
func (e *Engine) CommitFieldChange(ctx context.Context, ch FieldChange) error {
	if err := e.ledger.Apply(ctx, ch); err != nil {
		return err
	}
	if err := e.agg.Recompute(ctx, ch.ProjectID, ch.Modality); err != nil {
		return err
	}
	if ch.OldProjectID != 0 && ch.OldProjectID != ch.ProjectID {
		if err := e.agg.Recompute(ctx, ch.OldProjectID, ch.Modality); err != nil {
			return err
		}
	}
	return nil
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return dateOnly(a).Equal(dateOnly(b))
}

func round3(v float64) float64 { return geometry.Round3(v) }
