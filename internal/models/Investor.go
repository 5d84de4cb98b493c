package models

import "gorm.io/gorm"

// Investor is the contracting party of a project.
type Investor struct {
	gorm.Model

	Name    string `json:"name" binding:"required" gorm:"unique;index"`
	Address string `json:"address"`
	Email   string `json:"email" gorm:"unique" binding:"omitempty,email"`

	// Nine-digit tax identification number.
	TaxID string `json:"tax_id" gorm:"unique"`
	// Eight-digit company registry number.
	RegistryNumber string `json:"registry_number" gorm:"unique"`

	Phone string `json:"phone"`
}
