package routes

import (
	"geosurvey/internal/controllers"
	"geosurvey/internal/middleware"
	"github.com/gin-gonic/gin"
)

func ProfileRoutes(r *gin.Engine) {
	mag := r.Group("/profiles/mag")
	mag.Use(middleware.RequireAuth())
	{
		mag.POST("/", controllers.CreateProfileMag)
		mag.GET("/", controllers.GetProfilesMag)
		mag.PUT("/:id", controllers.UpdateProfileMag)
		mag.DELETE("/:id", controllers.DeleteProfileMag)
	}

	gpr := r.Group("/profiles/gpr")
	gpr.Use(middleware.RequireAuth())
	{
		gpr.POST("/", controllers.CreateProfileGpr)
		gpr.GET("/", controllers.GetProfilesGpr)
		gpr.PUT("/:id", controllers.UpdateProfileGpr)
		gpr.DELETE("/:id", controllers.DeleteProfileGpr)
	}
}
