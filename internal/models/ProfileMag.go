package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileMag is a linear magnetometer transect: a two-point linestring with a
// derived length.
type ProfileMag struct {
	gorm.Model

	Name         string     `json:"name" binding:"required" gorm:"index"`
	Date         *time.Time `json:"date" gorm:"type:date;index"`
	SurveyNumber *int       `json:"survey_number"`

	ProjectID      uint `json:"project_id" gorm:"index;not null"`
	MagnetometerID uint `json:"magnetometer_id" gorm:"index"`
	CrewMemberID   uint `json:"crew_member_id" gorm:"index"`

	Surface string `json:"surface"`

	// Derived.
	Length float64 `json:"length"`

	// WKB-encoded LINESTRING with exactly two points.
	Geometry []byte `json:"-" gorm:"type:bytea"`
}
