package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/twpayne/go-geom"

	"geosurvey/internal/engine"
	"geosurvey/internal/geometry"
)

// MemoryStore is an in-memory engine.Store used by the engine tests and by
// offline recomputation checks. It holds the same facts the gorm store reads
// from the database: field geometries keyed by project, modality and date,
// coverage entries, and project totals.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  uint
	fields  map[uint]*memField
	entries map[entryKey]*memEntry
	totals  map[totalKey]float64
}

type memField struct {
	projectID uint
	modality  engine.Modality
	date      *time.Time
	polygon   *geom.Polygon
	area      float64
}

type entryKey struct {
	projectID uint
	day       string
}

type memEntry struct {
	day     time.Time
	areaMag float64
	areaGpr float64
}

type totalKey struct {
	projectID uint
	modality  engine.Modality
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		fields:  make(map[uint]*memField),
		entries: make(map[entryKey]*memEntry),
		totals:  make(map[totalKey]float64),
	}
}

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

func dayOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PutField records a field and returns its id.
func (s *MemoryStore) PutField(projectID uint, m engine.Modality, date time.Time, poly *geom.Polygon) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d := dayOnly(date)
	s.fields[s.nextID] = &memField{
		projectID: projectID,
		modality:  m,
		date:      &d,
		polygon:   poly,
		area:      geometry.PolygonArea(poly),
	}
	return s.nextID
}

// MoveFieldDate updates a field's recording date, returning the old date.
func (s *MemoryStore) MoveFieldDate(id uint, date time.Time) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fields[id]
	old := f.date
	d := dayOnly(date)
	f.date = &d
	return old
}

// RemoveField deletes a field, returning its date for the change cascade.
func (s *MemoryStore) RemoveField(id uint) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fields[id]
	delete(s.fields, id)
	if f == nil {
		return nil
	}
	return f.date
}

// Entry returns the stored coverage entry for a project and date.
func (s *MemoryStore) Entry(projectID uint, date time.Time) (areaMag, areaGpr float64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryKey{projectID, dayKey(date)}]
	if !ok {
		return 0, 0, false
	}
	return e.areaMag, e.areaGpr, true
}

// Entries returns all coverage entries of a project in ascending date order.
func (s *MemoryStore) Entries(projectID uint) []struct {
	Date             time.Time
	AreaMag, AreaGpr float64
} {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []struct {
		Date             time.Time
		AreaMag, AreaGpr float64
	}
	for k, e := range s.entries {
		if k.projectID != projectID {
			continue
		}
		out = append(out, struct {
			Date             time.Time
			AreaMag, AreaGpr float64
		}{e.day, e.areaMag, e.areaGpr})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Total returns the stored derived total for a project and modality.
func (s *MemoryStore) Total(projectID uint, m engine.Modality) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals[totalKey{projectID, m}]
}

// engine.Store implementation.

func (s *MemoryStore) FieldPolygonsBefore(_ context.Context, projectID uint, m engine.Modality, day time.Time) ([]*geom.Polygon, error) {
	return s.selectPolygons(projectID, m, func(d time.Time) bool { return d.Before(dayOnly(day)) }), nil
}

func (s *MemoryStore) FieldPolygonsOn(_ context.Context, projectID uint, m engine.Modality, day time.Time) ([]*geom.Polygon, error) {
	return s.selectPolygons(projectID, m, func(d time.Time) bool { return d.Equal(dayOnly(day)) }), nil
}

func (s *MemoryStore) selectPolygons(projectID uint, m engine.Modality, match func(time.Time) bool) []*geom.Polygon {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*geom.Polygon
	for _, f := range s.fields {
		if f.projectID == projectID && f.modality == m && f.date != nil && match(*f.date) {
			out = append(out, f.polygon)
		}
	}
	return out
}

func (s *MemoryStore) SumFieldAreas(_ context.Context, projectID uint, m engine.Modality) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, f := range s.fields {
		if f.projectID == projectID && f.modality == m {
			total += f.area
		}
	}
	return total, nil
}

func (s *MemoryStore) HasFieldOnOrAfter(_ context.Context, projectID uint, day time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fields {
		if f.projectID == projectID && f.date != nil && !f.date.Before(dayOnly(day)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) EntryDatesFrom(_ context.Context, projectID uint, day time.Time, inclusive bool) ([]time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := dayOnly(day)
	var dates []time.Time
	for k, e := range s.entries {
		if k.projectID != projectID {
			continue
		}
		if e.day.After(from) || (inclusive && e.day.Equal(from)) {
			dates = append(dates, e.day)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (s *MemoryStore) UpsertEntry(_ context.Context, projectID uint, day time.Time, areaMag, areaGpr float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryKey{projectID, dayKey(day)}] = &memEntry{
		day:     dayOnly(day),
		areaMag: areaMag,
		areaGpr: areaGpr,
	}
	return nil
}

func (s *MemoryStore) DeleteEntry(_ context.Context, projectID uint, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, entryKey{projectID, dayKey(day)})
	return nil
}

func (s *MemoryStore) SetProjectTotal(_ context.Context, projectID uint, m engine.Modality, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[totalKey{projectID, m}] = total
	return nil
}
