package controllers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"geosurvey/internal/config"
	"geosurvey/internal/engine"
	"geosurvey/internal/models"
)

var (
	taxIDRe          = regexp.MustCompile(`^\d{9}$`)
	registryNumberRe = regexp.MustCompile(`^\d{8}$`)
)

func createRegistryRecord(c *gin.Context, record interface{}) {
	if err := config.DB.Create(record).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "record already exists"})
			return
		}
		logrus.WithError(err).Error("registry: could not create record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create record"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func CreateCrewMember(c *gin.Context) {
	var member models.CrewMember
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	createRegistryRecord(c, &member)
}

func GetCrewMembers(c *gin.Context) {
	var members []models.CrewMember
	if err := config.DB.Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list crew"})
		return
	}
	c.JSON(http.StatusOK, members)
}

// DeleteCrewMember always refuses. Crew records are append-only because survey
// fields and profiles keep referencing the member who recorded them.
func DeleteCrewMember(c *gin.Context) {
	err := engine.ErrImmutableRecord
	c.JSON(statusForEngineError(err), gin.H{"error": "crew members cannot be deleted"})
}

func CreateInvestor(c *gin.Context) {
	var investor models.Investor
	if err := c.ShouldBindJSON(&investor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if investor.TaxID != "" && !taxIDRe.MatchString(investor.TaxID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tax_id must be nine digits"})
		return
	}
	if investor.RegistryNumber != "" && !registryNumberRe.MatchString(investor.RegistryNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "registry_number must be eight digits"})
		return
	}
	createRegistryRecord(c, &investor)
}

func GetInvestors(c *gin.Context) {
	var investors []models.Investor
	if err := config.DB.Find(&investors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list investors"})
		return
	}
	c.JSON(http.StatusOK, investors)
}

func CreateManufacturer(c *gin.Context) {
	var m models.Manufacturer
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	createRegistryRecord(c, &m)
}

func GetManufacturers(c *gin.Context) {
	var ms []models.Manufacturer
	if err := config.DB.Find(&ms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list manufacturers"})
		return
	}
	c.JSON(http.StatusOK, ms)
}

func CreateMagnetometer(c *gin.Context) {
	var m models.Magnetometer
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	createRegistryRecord(c, &m)
}

func GetMagnetometers(c *gin.Context) {
	var ms []models.Magnetometer
	if err := config.DB.Find(&ms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list magnetometers"})
		return
	}
	c.JSON(http.StatusOK, ms)
}

func CreateGeoradar(c *gin.Context) {
	var g models.Georadar
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	createRegistryRecord(c, &g)
}

func GetGeoradars(c *gin.Context) {
	var gs []models.Georadar
	if err := config.DB.Find(&gs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list georadars"})
		return
	}
	c.JSON(http.StatusOK, gs)
}

func CreateAntenna(c *gin.Context) {
	var a models.Antenna
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if a.FrequencyMHz != nil && *a.FrequencyMHz <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frequency_mhz must be positive"})
		return
	}
	createRegistryRecord(c, &a)
}

func GetAntennas(c *gin.Context) {
	var as []models.Antenna
	if err := config.DB.Find(&as).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list antennas"})
		return
	}
	c.JSON(http.StatusOK, as)
}
