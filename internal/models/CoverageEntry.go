package models

import (
	"time"

	"gorm.io/gorm"
)

// CoverageEntry records, per project and survey date, the area newly covered
// on that date that no field of the same modality had already covered on an
// earlier date. Rows are owned exclusively by the coverage ledger.
type CoverageEntry struct {
	gorm.Model

	ProjectID uint      `json:"project_id" gorm:"uniqueIndex:uq_project_date;not null"`
	Date      time.Time `json:"date" gorm:"type:date;uniqueIndex:uq_project_date;not null"`

	AreaMag float64 `json:"area_mag"`
	AreaGpr float64 `json:"area_gpr"`
}
