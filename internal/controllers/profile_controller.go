package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geosurvey/internal/config"
	"geosurvey/internal/engine"
	"geosurvey/internal/geometry"
	"geosurvey/internal/models"
)

type profileMagInput struct {
	Name           string `json:"name" binding:"required"`
	Date           string `json:"date"`
	SurveyNumber   *int   `json:"survey_number"`
	ProjectID      uint   `json:"project_id" binding:"required"`
	MagnetometerID uint   `json:"magnetometer_id"`
	CrewMemberID   uint   `json:"crew_member_id"`
	Surface        string `json:"surface"`
	Geometry       string `json:"geometry" binding:"required"` // GeoJSON linestring
}

type profileGprInput struct {
	Name          string `json:"name" binding:"required"`
	Date          string `json:"date"`
	FileName      string `json:"file_name"`
	ProjectID     uint   `json:"project_id" binding:"required"`
	GeoradarID    uint   `json:"georadar_id"`
	AntennaID     uint   `json:"antenna_id"`
	Surface       string `json:"surface"`
	RecordingMode string `json:"recording_mode"`
	Geometry      string `json:"geometry" binding:"required"` // GeoJSON linestring
}

// deriveProfile validates the transect geometry and returns its length.
func deriveProfile(eng *engine.Engine, m engine.Modality, name, fileName string, wkbBytes []byte) (float64, error) {
	line, err := geometry.LineStringFromWKB(wkbBytes)
	if err != nil {
		return 0, err
	}
	rec := engine.ProfileRecord{Modality: m, Name: name, FileName: fileName, Line: line}
	if err := eng.PrepareProfile(&rec); err != nil {
		return 0, err
	}
	return rec.Length, nil
}

func CreateProfileMag(c *gin.Context) {
	var input profileMagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wkbBytes, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := checkSurveyNumber(input.SurveyNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.ProfileMag{
		Name:           input.Name,
		Date:           date,
		SurveyNumber:   input.SurveyNumber,
		ProjectID:      input.ProjectID,
		MagnetometerID: input.MagnetometerID,
		CrewMemberID:   input.CrewMemberID,
		Surface:        input.Surface,
		Geometry:       wkbBytes,
	}

	eng := engineFor(config.DB)
	length, err := deriveProfile(eng, engine.ModalityMag, profile.Name, "", profile.Geometry)
	if err != nil {
		logrus.WithError(err).Warn("CreateProfileMag: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	profile.Length = length

	if err := config.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func UpdateProfileMag(c *gin.Context) {
	var input profileMagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wkbBytes, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := checkSurveyNumber(input.SurveyNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.ProfileMag
	if err := config.DB.First(&profile, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	profile.Name = input.Name
	profile.Date = date
	profile.SurveyNumber = input.SurveyNumber
	profile.ProjectID = input.ProjectID
	profile.MagnetometerID = input.MagnetometerID
	profile.CrewMemberID = input.CrewMemberID
	profile.Surface = input.Surface
	profile.Geometry = wkbBytes

	eng := engineFor(config.DB)
	length, err := deriveProfile(eng, engine.ModalityMag, profile.Name, "", profile.Geometry)
	if err != nil {
		logrus.WithError(err).Warn("UpdateProfileMag: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	profile.Length = length

	if err := config.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func DeleteProfileMag(c *gin.Context) {
	if err := config.DB.Delete(&models.ProfileMag{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func GetProfilesMag(c *gin.Context) {
	var profiles []models.ProfileMag
	q := config.DB
	if pid := c.Query("project_id"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}
	if err := q.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list profiles"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func CreateProfileGpr(c *gin.Context) {
	var input profileGprInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wkbBytes, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode := models.RecordingMode(input.RecordingMode)
	if mode == "" {
		mode = models.RecordingCart
	}
	if mode != models.RecordingCart && mode != models.RecordingManual {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recording_mode must be cart or manual"})
		return
	}

	profile := models.ProfileGpr{
		Name:          input.Name,
		Date:          date,
		FileName:      input.FileName,
		ProjectID:     input.ProjectID,
		GeoradarID:    input.GeoradarID,
		AntennaID:     input.AntennaID,
		Surface:       input.Surface,
		RecordingMode: mode,
		Geometry:      wkbBytes,
	}

	if input.AntennaID != 0 {
		antennaID := input.AntennaID
		if err := checkRadarAntenna(config.DB, input.GeoradarID, &antennaID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	eng := engineFor(config.DB)
	length, err := deriveProfile(eng, engine.ModalityGpr, profile.Name, profile.FileName, profile.Geometry)
	if err != nil {
		logrus.WithError(err).Warn("CreateProfileGpr: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	profile.Length = length

	if err := config.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func UpdateProfileGpr(c *gin.Context) {
	var input profileGprInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	date, err := parseDate(input.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wkbBytes, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.ProfileGpr
	if err := config.DB.First(&profile, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}

	profile.Name = input.Name
	profile.Date = date
	profile.FileName = input.FileName
	profile.ProjectID = input.ProjectID
	profile.GeoradarID = input.GeoradarID
	profile.AntennaID = input.AntennaID
	profile.Surface = input.Surface
	if input.RecordingMode != "" {
		profile.RecordingMode = models.RecordingMode(input.RecordingMode)
	}
	profile.Geometry = wkbBytes

	if profile.AntennaID != 0 {
		antennaID := profile.AntennaID
		if err := checkRadarAntenna(config.DB, profile.GeoradarID, &antennaID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	eng := engineFor(config.DB)
	length, err := deriveProfile(eng, engine.ModalityGpr, profile.Name, profile.FileName, profile.Geometry)
	if err != nil {
		logrus.WithError(err).Warn("UpdateProfileGpr: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	profile.Length = length

	if err := config.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func DeleteProfileGpr(c *gin.Context) {
	if err := config.DB.Delete(&models.ProfileGpr{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func GetProfilesGpr(c *gin.Context) {
	var profiles []models.ProfileGpr
	q := config.DB
	if pid := c.Query("project_id"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}
	if err := q.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list profiles"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}
