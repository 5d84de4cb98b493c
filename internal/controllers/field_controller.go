package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geosurvey/internal/config"
	"geosurvey/internal/engine"
	"geosurvey/internal/geometry"
	"geosurvey/internal/models"
)

type fieldMagInput struct {
	Name           string  `json:"name" binding:"required"`
	Date           string  `json:"date"`
	SurveyNumber   *int    `json:"survey_number"`
	ProjectID      uint    `json:"project_id" binding:"required"`
	MagnetometerID uint    `json:"magnetometer_id"`
	OriginCorner   int     `json:"origin_corner" binding:"required"`
	Surface        string  `json:"surface"`
	ShiftX         float64 `json:"shift_x"`
	ShiftY         float64 `json:"shift_y"`
	ShiftZ         float64 `json:"shift_z"`
	BadRows        []int64 `json:"bad_rows"`
	Geometry       string  `json:"geometry" binding:"required"` // GeoJSON polygon
}

type fieldGprInput struct {
	Name          string `json:"name" binding:"required"`
	Date          string `json:"date"`
	FileName      string `json:"file_name"`
	ProjectID     uint   `json:"project_id" binding:"required"`
	GeoradarID    uint   `json:"georadar_id"`
	AntennaID     *uint  `json:"antenna_id"`
	OriginCorner  int    `json:"origin_corner" binding:"required"`
	Surface       string `json:"surface"`
	RecordingMode string `json:"recording_mode"`
	Geometry      string `json:"geometry" binding:"required"` // GeoJSON polygon
}

// checkSurveyNumber enforces the 1..99 range of magnetometer survey numbers.
func checkSurveyNumber(n *int) error {
	if n != nil && (*n < 1 || *n > 99) {
		return fmt.Errorf("survey_number %d out of range [1,99]", *n)
	}
	return nil
}

// deriveMag validates the field and fills its derived columns in place.
func deriveMag(eng *engine.Engine, f *models.FieldMag) error {
	poly, err := geometry.PolygonFromWKB(f.Geometry)
	if err != nil {
		return err
	}
	rec := engine.FieldRecord{
		Modality:     engine.ModalityMag,
		Name:         f.Name,
		OriginCorner: f.OriginCorner,
		ShiftX:       f.ShiftX,
		ShiftY:       f.ShiftY,
		BadRows:      f.BadRows,
		Polygon:      poly,
	}
	if err := eng.PrepareField(&rec); err != nil {
		return err
	}
	f.Area = rec.Area
	f.OriginX, f.OriginY = &rec.OriginX, &rec.OriginY
	f.OriginAngle = &rec.OriginAngle
	f.ProfileLength, f.ProfileWidth = &rec.ProfileLength, &rec.ProfileWidth
	return nil
}

func deriveGpr(eng *engine.Engine, f *models.FieldGpr) error {
	poly, err := geometry.PolygonFromWKB(f.Geometry)
	if err != nil {
		return err
	}
	rec := engine.FieldRecord{
		Modality:     engine.ModalityGpr,
		Name:         f.Name,
		FileName:     f.FileName,
		OriginCorner: f.OriginCorner,
		Polygon:      poly,
	}
	if err := eng.PrepareField(&rec); err != nil {
		return err
	}
	f.Area = rec.Area
	f.OriginX, f.OriginY = &rec.OriginX, &rec.OriginY
	f.OriginAngle = &rec.OriginAngle
	return nil
}

// checkRadarAntenna enforces that a radar and its antenna come from the same
// manufacturer.
func checkRadarAntenna(tx *gorm.DB, georadarID uint, antennaID *uint) error {
	if georadarID == 0 || antennaID == nil {
		return nil
	}
	var radar models.Georadar
	if err := tx.First(&radar, georadarID).Error; err != nil {
		return fmt.Errorf("georadar %d not found", georadarID)
	}
	var antenna models.Antenna
	if err := tx.First(&antenna, *antennaID).Error; err != nil {
		return fmt.Errorf("antenna %d not found", *antennaID)
	}
	if radar.ManufacturerID != antenna.ManufacturerID {
		return fmt.Errorf("georadar %d and antenna %d must be from the same manufacturer", georadarID, *antennaID)
	}
	return nil
}

func CreateFieldMag(c *gin.Context) {
	var input fieldMagInput
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

	field := models.FieldMag{
		Name:           input.Name,
		Date:           date,
		SurveyNumber:   input.SurveyNumber,
		ProjectID:      input.ProjectID,
		MagnetometerID: input.MagnetometerID,
		OriginCorner:   input.OriginCorner,
		Surface:        input.Surface,
		ShiftX:         input.ShiftX,
		ShiftY:         input.ShiftY,
		ShiftZ:         input.ShiftZ,
		BadRows:        pq.Int64Array(input.BadRows),
		Geometry:       wkbBytes,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	if err := deriveMag(eng, &field); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("CreateFieldMag: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Create(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:        engine.OpInsert,
		Modality:  engine.ModalityMag,
		ProjectID: field.ProjectID,
		Date:      field.Date,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("CreateFieldMag: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusCreated, field)
}

func UpdateFieldMag(c *gin.Context) {
	var input fieldMagInput
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

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	var field models.FieldMag
	if err := tx.First(&field, c.Param("id")).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load field"})
		return
	}
	oldDate, oldProject := field.Date, field.ProjectID

	field.Name = input.Name
	field.Date = date
	field.SurveyNumber = input.SurveyNumber
	field.ProjectID = input.ProjectID
	field.MagnetometerID = input.MagnetometerID
	field.OriginCorner = input.OriginCorner
	field.Surface = input.Surface
	field.ShiftX, field.ShiftY, field.ShiftZ = input.ShiftX, input.ShiftY, input.ShiftZ
	field.BadRows = pq.Int64Array(input.BadRows)
	field.Geometry = wkbBytes

	if err := deriveMag(eng, &field); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("UpdateFieldMag: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Save(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:           engine.OpUpdate,
		Modality:     engine.ModalityMag,
		ProjectID:    field.ProjectID,
		OldProjectID: oldProject,
		Date:         field.Date,
		OldDate:      oldDate,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("UpdateFieldMag: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusOK, field)
}

func DeleteFieldMag(c *gin.Context) {
	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	var field models.FieldMag
	if err := tx.First(&field, c.Param("id")).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load field"})
		return
	}
	if err := tx.Unscoped().Delete(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:        engine.OpDelete,
		Modality:  engine.ModalityMag,
		ProjectID: field.ProjectID,
		Date:      field.Date,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("DeleteFieldMag: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func GetFieldsMag(c *gin.Context) {
	var fields []models.FieldMag
	q := config.DB
	if pid := c.Query("project_id"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}
	if err := q.Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list fields"})
		return
	}
	c.JSON(http.StatusOK, fields)
}

func CreateFieldGpr(c *gin.Context) {
	var input fieldGprInput
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

	field := models.FieldGpr{
		Name:          input.Name,
		Date:          date,
		FileName:      input.FileName,
		ProjectID:     input.ProjectID,
		GeoradarID:    input.GeoradarID,
		AntennaID:     input.AntennaID,
		OriginCorner:  input.OriginCorner,
		Surface:       input.Surface,
		RecordingMode: mode,
		Geometry:      wkbBytes,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	if err := checkRadarAntenna(tx, field.GeoradarID, field.AntennaID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := deriveGpr(eng, &field); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("CreateFieldGpr: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Create(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:        engine.OpInsert,
		Modality:  engine.ModalityGpr,
		ProjectID: field.ProjectID,
		Date:      field.Date,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("CreateFieldGpr: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusCreated, field)
}

func UpdateFieldGpr(c *gin.Context) {
	var input fieldGprInput
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

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	var field models.FieldGpr
	if err := tx.First(&field, c.Param("id")).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load field"})
		return
	}
	oldDate, oldProject := field.Date, field.ProjectID

	field.Name = input.Name
	field.Date = date
	field.FileName = input.FileName
	field.ProjectID = input.ProjectID
	field.GeoradarID = input.GeoradarID
	field.AntennaID = input.AntennaID
	field.OriginCorner = input.OriginCorner
	field.Surface = input.Surface
	if input.RecordingMode != "" {
		field.RecordingMode = models.RecordingMode(input.RecordingMode)
	}
	field.Geometry = wkbBytes

	if err := checkRadarAntenna(tx, field.GeoradarID, field.AntennaID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := deriveGpr(eng, &field); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("UpdateFieldGpr: rejected")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Save(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:           engine.OpUpdate,
		Modality:     engine.ModalityGpr,
		ProjectID:    field.ProjectID,
		OldProjectID: oldProject,
		Date:         field.Date,
		OldDate:      oldDate,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("UpdateFieldGpr: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusOK, field)
}

func DeleteFieldGpr(c *gin.Context) {
	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	eng := engineFor(tx)

	var field models.FieldGpr
	if err := tx.First(&field, c.Param("id")).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "field not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load field"})
		return
	}
	if err := tx.Unscoped().Delete(&field).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete field"})
		return
	}
	if err := eng.CommitFieldChange(c.Request.Context(), engine.FieldChange{
		Op:        engine.OpDelete,
		Modality:  engine.ModalityGpr,
		ProjectID: field.ProjectID,
		Date:      field.Date,
	}); err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("DeleteFieldGpr: coverage accounting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "coverage accounting failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func GetFieldsGpr(c *gin.Context) {
	var fields []models.FieldGpr
	q := config.DB
	if pid := c.Query("project_id"); pid != "" {
		q = q.Where("project_id = ?", pid)
	}
	if err := q.Find(&fields).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list fields"})
		return
	}
	c.JSON(http.StatusOK, fields)
}
