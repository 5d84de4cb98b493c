package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FieldMag is a rectangular magnetometer survey field. Area, origin corner
// coordinates, origin angle and profile dimensions are derived by the engine
// on every geometry or origin-corner change.
type FieldMag struct {
	gorm.Model

	Name         string     `json:"name" binding:"required" gorm:"index"`
	Date         *time.Time `json:"date" gorm:"type:date;index"`
	SurveyNumber *int       `json:"survey_number"`

	ProjectID      uint `json:"project_id" gorm:"index;not null"`
	MagnetometerID uint `json:"magnetometer_id" gorm:"index"`

	// Origin corner index into the normalized rectangle ring, 1..4.
	OriginCorner int `json:"origin_corner" binding:"required"`

	Surface string `json:"surface"`

	ShiftX float64 `json:"shift_x" gorm:"default:0"`
	ShiftY float64 `json:"shift_y" gorm:"default:0"`
	ShiftZ float64 `json:"shift_z" gorm:"default:0"`

	// Rows that were recorded incorrectly; entries must be unique.
	BadRows pq.Int64Array `json:"bad_rows" gorm:"type:integer[]"`

	// Derived.
	Area          float64  `json:"area"`
	OriginX       *float64 `json:"origin_x"`
	OriginY       *float64 `json:"origin_y"`
	OriginAngle   *float64 `json:"origin_angle"` // radians, bearing to the next vertex clockwise
	ProfileLength *int     `json:"profile_length"`
	ProfileWidth  *int     `json:"profile_width"`

	// WKB-encoded POLYGON.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	Crew []CrewMember `json:"crew,omitempty" gorm:"many2many:field_mag_crew;"`
}
