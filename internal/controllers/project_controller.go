package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geosurvey/internal/config"
	"geosurvey/internal/models"
)

type projectInput struct {
	Name              string   `json:"name" binding:"required"`
	ContractNumber    string   `json:"contract_number"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	ContractedAreaMag *float64 `json:"contracted_area_mag"`
	ContractedAreaGpr *float64 `json:"contracted_area_gpr"`
	InvestorID        *uint    `json:"investor_id"`
}

func applyProjectInput(p *models.Project, input projectInput) error {
	start, err := parseDate(input.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate(input.EndDate)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("end_date must not precede start_date")
	}
	p.Name = input.Name
	p.ContractNumber = input.ContractNumber
	p.StartDate, p.EndDate = start, end
	p.ContractedAreaMag = input.ContractedAreaMag
	p.ContractedAreaGpr = input.ContractedAreaGpr
	p.InvestorID = input.InvestorID
	return nil
}

func CreateProject(c *gin.Context) {
	var input projectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var project models.Project
	if err := applyProjectInput(&project, input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&project).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "project name already in use"})
			return
		}
		logrus.WithError(err).Error("CreateProject: could not create project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func UpdateProject(c *gin.Context) {
	var input projectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var project models.Project
	if err := config.DB.First(&project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load project"})
		return
	}

	if err := applyProjectInput(&project, input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&project).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "project name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func GetProjects(c *gin.Context) {
	var projects []models.Project
	if err := config.DB.Preload("Crew").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func GetProject(c *gin.Context) {
	var project models.Project
	if err := config.DB.Preload("Crew").First(&project, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

func DeleteProject(c *gin.Context) {
	var countMag, countGpr int64
	config.DB.Model(&models.FieldMag{}).Where("project_id = ?", c.Param("id")).Count(&countMag)
	config.DB.Model(&models.FieldGpr{}).Where("project_id = ?", c.Param("id")).Count(&countGpr)
	if countMag+countGpr > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "project still has survey fields"})
		return
	}
	if err := config.DB.Delete(&models.Project{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type coverageRow struct {
	Date    string  `json:"date"`
	AreaMag float64 `json:"area_mag"`
	AreaGpr float64 `json:"area_gpr"`
}

// GetProjectCoverage lists the per-day newly covered area for a project,
// ascending by date.
func GetProjectCoverage(c *gin.Context) {
	var entries []models.CoverageEntry
	if err := config.DB.
		Where("project_id = ?", c.Param("id")).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list coverage"})
		return
	}
	rows := make([]coverageRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, coverageRow{
			Date:    e.Date.Format("2006-01-02"),
			AreaMag: e.AreaMag,
			AreaGpr: e.AreaGpr,
		})
	}
	c.JSON(http.StatusOK, rows)
}
