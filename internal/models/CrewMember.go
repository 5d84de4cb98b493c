package models

import "gorm.io/gorm"

// CrewMember is a survey team member. Records are append-only: deletion is
// rejected by the engine because fields and profiles keep referencing the
// member who recorded them.
type CrewMember struct {
	gorm.Model

	FirstName string `json:"first_name" binding:"required" gorm:"index"`
	LastName  string `json:"last_name" binding:"required" gorm:"index"`
	FullName  string `json:"full_name" gorm:"uniqueIndex"`
}

// BeforeSave keeps FullName in sync with its parts.
func (m *CrewMember) BeforeSave(tx *gorm.DB) error {
	m.FullName = m.FirstName + " " + m.LastName
	return nil
}
