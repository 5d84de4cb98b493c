package models

import (
	"time"

	"gorm.io/gorm"
)

// RecordingMode is how a radar field or profile was walked.
type RecordingMode string

const (
	RecordingCart   RecordingMode = "cart"
	RecordingManual RecordingMode = "manual"
)

// FieldGpr is a rectangular ground-penetrating-radar survey field. The radar
// is walked around the rectangle in the opposite direction from the
// magnetometer, so its origin angle points at the previous ring vertex.
type FieldGpr struct {
	gorm.Model

	Name     string     `json:"name" binding:"required" gorm:"index"`
	Date     *time.Time `json:"date" gorm:"type:date;index"`
	FileName string     `json:"file_name"`

	ProjectID  uint  `json:"project_id" gorm:"index;not null"`
	GeoradarID uint  `json:"georadar_id" gorm:"index"`
	AntennaID  *uint `json:"antenna_id" gorm:"index"`

	OriginCorner int `json:"origin_corner" binding:"required"`

	Surface       string        `json:"surface"`
	RecordingMode RecordingMode `json:"recording_mode" gorm:"default:cart"`

	// Derived.
	Area        float64  `json:"area"`
	OriginX     *float64 `json:"origin_x"`
	OriginY     *float64 `json:"origin_y"`
	OriginAngle *float64 `json:"origin_angle"` // radians, bearing to the previous vertex

	// WKB-encoded POLYGON.
	Geometry []byte `json:"-" gorm:"type:bytea"`

	Crew []CrewMember `json:"crew,omitempty" gorm:"many2many:field_gpr_crew;"`
}
