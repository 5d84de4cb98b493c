package models

import (
	"gorm.io/gorm"
)

// RasterTile is a digital-surface-model tile used for elevation resolution.
// The grid is stored row-major as little-endian float64s, row 0 at the
// minimum y edge.
type RasterTile struct {
	gorm.Model

	Name string `json:"name" gorm:"unique"`

	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	Cols int `json:"cols"`
	Rows int `json:"rows"`

	Values []byte `json:"-" gorm:"type:bytea"`
}
