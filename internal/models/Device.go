package models

import "gorm.io/gorm"

// Manufacturer of survey instruments.
type Manufacturer struct {
	gorm.Model

	Name string `json:"name" binding:"required" gorm:"unique"`
}

// Magnetometer is an area-magnetometry instrument.
type Magnetometer struct {
	gorm.Model

	Name           string `json:"name" binding:"required" gorm:"unique"`
	ManufacturerID uint   `json:"manufacturer_id" gorm:"index"`
}

// Georadar is a ground-penetrating-radar instrument.
type Georadar struct {
	gorm.Model

	Name           string `json:"name" binding:"required" gorm:"unique"`
	ManufacturerID uint   `json:"manufacturer_id" gorm:"index"`
}

// Antenna is a radar antenna; it can only be mounted on a radar from the same
// manufacturer.
type Antenna struct {
	gorm.Model

	Name           string   `json:"name" binding:"required" gorm:"unique"`
	ManufacturerID uint     `json:"manufacturer_id" gorm:"index"`
	FrequencyMHz   *float64 `json:"frequency_mhz"`
}
