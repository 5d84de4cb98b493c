package models

import (
	"time"

	"gorm.io/gorm"
)

// Project groups survey fields and profiles under one contract.
// TotalAreaMag and TotalAreaGpr are derived: the engine keeps each equal to
// the sum of the areas of the project's active fields of that modality.
type Project struct {
	gorm.Model

	Name           string     `json:"name" binding:"required" gorm:"unique;index"`
	ContractNumber string     `json:"contract_number"`
	StartDate      *time.Time `json:"start_date" gorm:"type:date"`
	EndDate        *time.Time `json:"end_date" gorm:"type:date"`

	// Contracted areas.
	ContractedAreaMag *float64 `json:"contracted_area_mag"`
	ContractedAreaGpr *float64 `json:"contracted_area_gpr"`

	// Derived running totals; never written by callers.
	TotalAreaMag float64 `json:"total_area_mag"`
	TotalAreaGpr float64 `json:"total_area_gpr"`

	InvestorID *uint `json:"investor_id" gorm:"index"`

	Crew []CrewMember `json:"crew,omitempty" gorm:"many2many:project_crew;"`
}
