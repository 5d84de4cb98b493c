package models

import (
	"time"

	"gorm.io/gorm"
)

// Point is a surveyed ground point. The planar coordinates, the elevation and
// the stored geometry are kept mutually consistent by the engine: whichever
// side of the pair a write supplies, the other is derived from it.
type Point struct {
	gorm.Model

	Name string     `json:"name" binding:"required" gorm:"index"`
	Date *time.Time `json:"date" gorm:"type:date"`

	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`

	// WKB-encoded POINT; the column is defined as PostGIS geometry by the
	// migration layer.
	Geometry []byte `json:"-" gorm:"type:bytea"`
}
