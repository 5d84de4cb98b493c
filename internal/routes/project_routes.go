package routes

import (
	"geosurvey/internal/controllers"
	"geosurvey/internal/middleware"
	"github.com/gin-gonic/gin"
)

func ProjectRoutes(r *gin.Engine) {
	projects := r.Group("/projects")
	projects.Use(middleware.RequireAuth())
	{
		projects.POST("/", controllers.CreateProject)
		projects.GET("/", controllers.GetProjects)
		projects.GET("/:id", controllers.GetProject)
		projects.GET("/:id/coverage", controllers.GetProjectCoverage)
		projects.PUT("/:id", controllers.UpdateProject)
		projects.DELETE("/:id", controllers.DeleteProject)
	}
}
