package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bryanfinkel/satellite-backend-go/internal/config"
	"github.com/bryanfinkel/satellite-backend-go/internal/handler"
	"github.com/bryanfinkel/satellite-backend-go/internal/middleware"
)

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, analysisHandler *handler.AnalysisHandler, vizHandler *handler.VisualizationHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Satellite Imagery Mapping System is running",
		})
	})

	api := r.Group("/api/v1")
	{
		// Imagery search
		api.GET("/search", analysisHandler.Search)

		// Analysis retrieval and rendering
		api.GET("/analyses/:id", analysisHandler.GetAnalysis)
		api.GET("/visualization/map/:id", vizHandler.GetMap)

		// Analysis submission: authenticated and rate limited, since every
		// request downloads two raster bands
		analyze := api.Group("")
		analyze.Use(middleware.Auth(cfg.JWTSecret))
		analyze.Use(middleware.RateLimit(10, time.Minute))
		{
			analyze.POST("/analyze-area", analysisHandler.AnalyzeArea)
			analyze.POST("/vegetation/ndvi", analysisHandler.AnalyzeVegetation)
		}
	}

	return r
}
