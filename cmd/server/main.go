package main

import (
	"log"
	"net/http"
	"os"

	"geosurvey/internal/config"
	"geosurvey/internal/controllers"
	"geosurvey/internal/elevation"
	"geosurvey/internal/logger"
	"geosurvey/internal/middleware"
	"geosurvey/internal/routes"
	"geosurvey/internal/store"

	"github.com/sirupsen/logrus"
)

// loadGeoids reads the geoid correction grids named in the environment. A
// missing grid is not fatal; the resolver falls through to the next one and
// finally to the constant undulation.
func loadGeoids() []elevation.Geoid {
	var geoids []elevation.Geoid
	for _, g := range []struct{ name, envVar string }{
		{"egm08_25", "GEOID_GRID_PRIMARY"},
		{"us_nga_egm08_25", "GEOID_GRID_SECONDARY"},
	} {
		path := os.Getenv(g.envVar)
		if path == "" {
			continue
		}
		grid, err := elevation.LoadGeoidGrid(g.name, path)
		if err != nil {
			logrus.WithError(err).Warnf("could not load geoid grid %s from %s", g.name, path)
			continue
		}
		geoids = append(geoids, grid)
	}
	return geoids
}

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Elevation resolver: raster tiles from the database, geoid grids from
	// disk, constant fallback last.
	resolver := elevation.NewResolver(store.NewSurveyStore(config.DB), loadGeoids()...)
	controllers.Setup(resolver)

	// Setup Gin router (recovery and request logging are wired inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
