package store

import (
	"context"
	"time"

	"github.com/twpayne/go-geom"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"geosurvey/internal/elevation"
	"geosurvey/internal/engine"
	"geosurvey/internal/geometry"
	"geosurvey/internal/models"
)

// SurveyStore implements engine.Store and elevation.RasterStore on top of
// gorm. Bind it to the mutation's transaction with WithTx so the engine's
// reads and writes share the triggering write's isolation.
type SurveyStore struct {
	db *gorm.DB
}

func NewSurveyStore(db *gorm.DB) *SurveyStore {
	return &SurveyStore{db: db}
}

// WithTx returns a store bound to the given transaction handle.
func (s *SurveyStore) WithTx(tx *gorm.DB) *SurveyStore {
	return &SurveyStore{db: tx}
}

func (s *SurveyStore) FieldPolygonsBefore(ctx context.Context, projectID uint, m engine.Modality, day time.Time) ([]*geom.Polygon, error) {
	return s.fieldPolygons(ctx, projectID, m, "date < ?", day)
}

func (s *SurveyStore) FieldPolygonsOn(ctx context.Context, projectID uint, m engine.Modality, day time.Time) ([]*geom.Polygon, error) {
	return s.fieldPolygons(ctx, projectID, m, "date = ?", day)
}

func (s *SurveyStore) fieldPolygons(ctx context.Context, projectID uint, m engine.Modality, dateCond string, day time.Time) ([]*geom.Polygon, error) {
	var blobs [][]byte
	q := s.db.WithContext(ctx).
		Where("project_id = ? AND date IS NOT NULL", projectID).
		Where(dateCond, day)
	var err error
	if m == engine.ModalityMag {
		err = q.Model(&models.FieldMag{}).Pluck("geometry", &blobs).Error
	} else {
		err = q.Model(&models.FieldGpr{}).Pluck("geometry", &blobs).Error
	}
	if err != nil {
		return nil, err
	}
	polys := make([]*geom.Polygon, 0, len(blobs))
	for _, b := range blobs {
		p, err := geometry.PolygonFromWKB(b)
		if err != nil {
			return nil, err
		}
		if p != nil {
			polys = append(polys, p)
		}
	}
	return polys, nil
}

func (s *SurveyStore) SumFieldAreas(ctx context.Context, projectID uint, m engine.Modality) (float64, error) {
	var total float64
	q := s.db.WithContext(ctx).Where("project_id = ?", projectID)
	var err error
	if m == engine.ModalityMag {
		err = q.Model(&models.FieldMag{}).Select("COALESCE(SUM(area), 0)").Scan(&total).Error
	} else {
		err = q.Model(&models.FieldGpr{}).Select("COALESCE(SUM(area), 0)").Scan(&total).Error
	}
	return total, err
}

func (s *SurveyStore) HasFieldOnOrAfter(ctx context.Context, projectID uint, day time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FieldMag{}).
		Where("project_id = ? AND date >= ?", projectID, day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = s.db.WithContext(ctx).Model(&models.FieldGpr{}).
		Where("project_id = ? AND date >= ?", projectID, day).
		Count(&count).Error
	return count > 0, err
}

func (s *SurveyStore) EntryDatesFrom(ctx context.Context, projectID uint, day time.Time, inclusive bool) ([]time.Time, error) {
	cond := "date > ?"
	if inclusive {
		cond = "date >= ?"
	}
	var dates []time.Time
	err := s.db.WithContext(ctx).Model(&models.CoverageEntry{}).
		Where("project_id = ?", projectID).
		Where(cond, day).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (s *SurveyStore) UpsertEntry(ctx context.Context, projectID uint, day time.Time, areaMag, areaGpr float64) error {
	entry := models.CoverageEntry{
		ProjectID: projectID,
		Date:      day,
		AreaMag:   areaMag,
		AreaGpr:   areaGpr,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"area_mag", "area_gpr", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SurveyStore) DeleteEntry(ctx context.Context, projectID uint, day time.Time) error {
	return s.db.WithContext(ctx).
		Where("project_id = ? AND date = ?", projectID, day).
		Delete(&models.CoverageEntry{}).Error
}

func (s *SurveyStore) SetProjectTotal(ctx context.Context, projectID uint, m engine.Modality, total float64) error {
	column := "total_area_mag"
	if m == engine.ModalityGpr {
		column = "total_area_gpr"
	}
	return s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update(column, total).Error
}

// Intersecting implements elevation.RasterStore over the raster_tiles table.
func (s *SurveyStore) Intersecting(ctx context.Context, x, y float64) ([]elevation.Raster, error) {
	var tiles []models.RasterTile
	err := s.db.WithContext(ctx).
		Where("min_x <= ? AND max_x >= ? AND min_y <= ? AND max_y >= ?", x, x, y, y).
		Find(&tiles).Error
	if err != nil {
		return nil, err
	}
	rasters := make([]elevation.Raster, 0, len(tiles))
	for _, t := range tiles {
		values, err := elevation.DecodeValues(t.Values)
		if err != nil {
			return nil, err
		}
		r, err := elevation.NewTileRaster(t.Name, t.MinX, t.MinY, t.MaxX, t.MaxY, t.Cols, t.Rows, values)
		if err != nil {
			return nil, err
		}
		rasters = append(rasters, r)
	}
	return rasters, nil
}
