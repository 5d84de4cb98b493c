package engine

import (
	"context"
	"time"

	"geosurvey/internal/geometry"
)

// CoverageLedger maintains, per project and survey date, the area newly
// covered that date relative to all strictly earlier dates of the same
// modality. Every entry is recomputed from the full field set when touched,
// which makes the stored values independent of the order historical edits
// were applied in.
type CoverageLedger struct {
	store Store
}

// Apply reacts to a committed field mutation. The affected date's entry is
// recomputed first, then every later entry of the project, in ascending date
// order, because their prior-union may have changed. When a record moved
// between dates the cascade starts at the earlier of the two.
func (l *CoverageLedger) Apply(ctx context.Context, ch FieldChange) error {
	// A project move leaves a hole in the old project's history as well.
	if ch.OldProjectID != 0 && ch.OldProjectID != ch.ProjectID {
		from := ch.OldDate
		if from == nil {
			from = ch.Date
		}
		if from != nil {
			if err := l.recomputeFrom(ctx, ch.OldProjectID, dateOnly(*from), true); err != nil {
				return err
			}
		}
	}

	switch {
	case ch.Date == nil && ch.OldDate == nil:
		return nil
	case ch.Date == nil:
		// Date was cleared; everything from the old date on is stale.
		return l.recomputeFrom(ctx, ch.ProjectID, dateOnly(*ch.OldDate), true)
	}

	day := dateOnly(*ch.Date)
	if err := l.RecomputeEntry(ctx, ch.ProjectID, day); err != nil {
		return err
	}

	from, inclusive := day, false
	if ch.OldDate != nil && !sameDay(*ch.OldDate, day) {
		if old := dateOnly(*ch.OldDate); old.Before(day) {
			from, inclusive = old, true
		}
	}
	return l.recomputeFrom(ctx, ch.ProjectID, from, inclusive)
}

// RecomputeEntry rebuilds the (project, day) entry from the current field
// set. The entry is removed only when no field of either modality remains on
// or after the day; otherwise it is kept, possibly at zero.
func (l *CoverageLedger) RecomputeEntry(ctx context.Context, projectID uint, day time.Time) error {
	day = dateOnly(day)
	remains, err := l.store.HasFieldOnOrAfter(ctx, projectID, day)
	if err != nil {
		return err
	}
	if !remains {
		return l.store.DeleteEntry(ctx, projectID, day)
	}

	areaMag, err := l.newlyCovered(ctx, projectID, ModalityMag, day)
	if err != nil {
		return err
	}
	areaGpr, err := l.newlyCovered(ctx, projectID, ModalityGpr, day)
	if err != nil {
		return err
	}
	return l.store.UpsertEntry(ctx, projectID, day, areaMag, areaGpr)
}

// newlyCovered computes area(union(day) - union(before day)) for one
// modality, rounded to 3 decimals, never negative.
func (l *CoverageLedger) newlyCovered(ctx context.Context, projectID uint, m Modality, day time.Time) (float64, error) {
	current, err := l.store.FieldPolygonsOn(ctx, projectID, m, day)
	if err != nil {
		return 0, err
	}
	if len(current) == 0 {
		return 0, nil
	}
	prior, err := l.store.FieldPolygonsBefore(ctx, projectID, m, day)
	if err != nil {
		return 0, err
	}
	return geometry.NonOverlappingArea(current, prior), nil
}

func (l *CoverageLedger) recomputeFrom(ctx context.Context, projectID uint, from time.Time, inclusive bool) error {
	dates, err := l.store.EntryDatesFrom(ctx, projectID, from, inclusive)
	if err != nil {
		return err
	}
	for _, d := range dates {
		if err := l.RecomputeEntry(ctx, projectID, d); err != nil {
			return err
		}
	}
	return nil
}
