package routes

import (
	"geosurvey/internal/controllers"
	"geosurvey/internal/middleware"
	"github.com/gin-gonic/gin"
)

func FieldRoutes(r *gin.Engine) {
	mag := r.Group("/fields/mag")
	mag.Use(middleware.RequireAuth())
	{
		mag.POST("/", controllers.CreateFieldMag)
		mag.GET("/", controllers.GetFieldsMag)
		mag.PUT("/:id", controllers.UpdateFieldMag)
		mag.DELETE("/:id", controllers.DeleteFieldMag)
	}

	gpr := r.Group("/fields/gpr")
	gpr.Use(middleware.RequireAuth())
	{
		gpr.POST("/", controllers.CreateFieldGpr)
		gpr.GET("/", controllers.GetFieldsGpr)
		gpr.PUT("/:id", controllers.UpdateFieldGpr)
		gpr.DELETE("/:id", controllers.DeleteFieldGpr)
	}
}
