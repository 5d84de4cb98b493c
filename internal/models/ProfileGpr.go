package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileGpr is a linear ground-penetrating-radar transect.
type ProfileGpr struct {
	gorm.Model

	Name     string     `json:"name" binding:"required" gorm:"index"`
	Date     *time.Time `json:"date" gorm:"type:date;index"`
	FileName string     `json:"file_name"`

	ProjectID  uint `json:"project_id" gorm:"index;not null"`
	GeoradarID uint `json:"georadar_id" gorm:"index"`
	AntennaID  uint `json:"antenna_id" gorm:"index"`

	Surface       string        `json:"surface"`
	RecordingMode RecordingMode `json:"recording_mode" gorm:"default:cart"`

	// Derived.
	Length float64 `json:"length"`

	// WKB-encoded LINESTRING with exactly two points.
	Geometry []byte `json:"-" gorm:"type:bytea"`
}
