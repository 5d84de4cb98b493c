package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geosurvey/internal/config"
	"geosurvey/internal/models"
)

type pointInput struct {
	Name     string   `json:"name" binding:"required"`
	Date     string   `json:"date"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Z        *float64 `json:"z"`
	Geometry string   `json:"geometry"` // GeoJSON point
}

// PointResponse mirrors models.Point with the geometry as GeoJSON.
type PointResponse struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Date     string   `json:"date,omitempty"`
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Z        *float64 `json:"z"`
	Geometry string   `json:"geometry"`
}

func toPointResponse(p models.Point) PointResponse {
	jsonGeom, _ := convertWKBToGeoJSON(p.Geometry)
	resp := PointResponse{
		ID:       p.ID,
		Name:     p.Name,
		X:        p.X,
		Y:        p.Y,
		Z:        p.Z,
		Geometry: jsonGeom,
	}
	if p.Date != nil {
		resp.Date = p.Date.Format("2006-01-02")
	}
	return resp
}

// applyPointInput copies the supplied fields onto the record. Omitted
// coordinates and geometry count as unchanged, so a partial update feeds the
// synchronizer exactly the side the caller edited.
func applyPointInput(p *models.Point, input pointInput) error {
	date, err := parseDate(input.Date)
	if err != nil {
		return err
	}
	wkbBytes, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		return err
	}
	p.Name = input.Name
	p.Date = date
	if input.X != nil {
		p.X = input.X
	}
	if input.Y != nil {
		p.Y = input.Y
	}
	if input.Z != nil {
		p.Z = input.Z
	}
	if wkbBytes != nil {
		p.Geometry = wkbBytes
	}
	return nil
}

// CreatePoint captures a survey point. The synchronizer fills whichever side
// of the coordinates/geometry pair the caller left out.
func CreatePoint(c *gin.Context) {
	var input pointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var point models.Point
	if err := applyPointInput(&point, input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	if err := engineFor(tx).SyncPoint(c.Request.Context(), nil, &point); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("CreatePoint: synchronization failed")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Create(&point).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create point"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusCreated, toPointResponse(point))
}

// UpdatePoint edits coordinates or geometry; the untouched side is re-derived.
func UpdatePoint(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid point id"})
		return
	}

	var input pointInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	var prev models.Point
	if err := tx.First(&prev, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "point not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load point"})
		return
	}

	next := prev
	if err := applyPointInput(&next, input); err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := engineFor(tx).SyncPoint(c.Request.Context(), &prev, &next); err != nil {
		tx.Rollback()
		logrus.WithError(err).Warn("UpdatePoint: synchronization failed")
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	if err := tx.Save(&next).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update point"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not commit transaction"})
		return
	}
	c.JSON(http.StatusOK, toPointResponse(next))
}

func GetPoints(c *gin.Context) {
	var points []models.Point
	if err := config.DB.Find(&points).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list points"})
		return
	}
	resp := make([]PointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, toPointResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func GetPoint(c *gin.Context) {
	var point models.Point
	if err := config.DB.First(&point, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "point not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load point"})
		return
	}
	c.JSON(http.StatusOK, toPointResponse(point))
}

func DeletePoint(c *gin.Context) {
	if err := config.DB.Delete(&models.Point{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete point"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
