package routes

import (
	"geosurvey/internal/controllers"
	"geosurvey/internal/middleware"
	"github.com/gin-gonic/gin"
)

func PointRoutes(r *gin.Engine) {
	points := r.Group("/points")
	points.Use(middleware.RequireAuth())
	{
		points.POST("/", controllers.CreatePoint)
		points.GET("/", controllers.GetPoints)
		points.GET("/:id", controllers.GetPoint)
		points.PUT("/:id", controllers.UpdatePoint)
		points.DELETE("/:id", controllers.DeletePoint)
	}
}
