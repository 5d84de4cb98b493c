package engine

import "context"

// ProjectAggregator keeps each project's total surveyed area per modality
// equal to the sum over its active fields. Totals are recomputed in full on
// every change, never adjusted incrementally.
type ProjectAggregator struct {
	store Store
}

func (a *ProjectAggregator) Recompute(ctx context.Context, projectID uint, m Modality) error {
	total, err := a.store.SumFieldAreas(ctx, projectID, m)
	if err != nil {
		return err
	}
	return a.store.SetProjectTotal(ctx, projectID, m, round3(total))
}
