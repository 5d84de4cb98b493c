package routes

import (
	"geosurvey/internal/controllers"
	"geosurvey/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegistryRoutes covers the slow-moving reference tables: crew, investors and
// instruments. Writes are admin-only; reads need any valid token.
func RegistryRoutes(r *gin.Engine) {
	registry := r.Group("/registry")
	registry.Use(middleware.RequireAuth())
	{
		registry.GET("/crew", controllers.GetCrewMembers)
		registry.GET("/investors", controllers.GetInvestors)
		registry.GET("/manufacturers", controllers.GetManufacturers)
		registry.GET("/magnetometers", controllers.GetMagnetometers)
		registry.GET("/georadars", controllers.GetGeoradars)
		registry.GET("/antennas", controllers.GetAntennas)
	}

	admin := r.Group("/registry")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/crew", controllers.CreateCrewMember)
		admin.DELETE("/crew/:id", controllers.DeleteCrewMember)
		admin.POST("/investors", controllers.CreateInvestor)
		admin.POST("/manufacturers", controllers.CreateManufacturer)
		admin.POST("/magnetometers", controllers.CreateMagnetometer)
		admin.POST("/georadars", controllers.CreateGeoradar)
		admin.POST("/antennas", controllers.CreateAntenna)
	}
}
