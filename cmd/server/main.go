package main

import (
	"log"

	"github.com/bryanfinkel/satellite-backend-go/internal/api"
	"github.com/bryanfinkel/satellite-backend-go/internal/cache"
	"github.com/bryanfinkel/satellite-backend-go/internal/config"
	"github.com/bryanfinkel/satellite-backend-go/internal/database"
	"github.com/bryanfinkel/satellite-backend-go/internal/handler"
	"github.com/bryanfinkel/satellite-backend-go/internal/imagery"
	"github.com/bryanfinkel/satellite-backend-go/internal/repository"
	"github.com/bryanfinkel/satellite-backend-go/internal/service"
	"github.com/bryanfinkel/satellite-backend-go/internal/stac"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Explicitly constructed dependencies; the analysis service owns both
	// storage tiers
	fetcher := imagery.NewFetcher()
	searcher := stac.NewClient(cfg.StacURL)
	analysisRepo := repository.NewAnalysisRepository(db)
	gridCache := cache.NewAnalysisCache()

	analysisService := service.NewAnalysisService(fetcher, searcher, analysisRepo, gridCache, cfg.DownsampleFactor, cfg.StoreRetries)
	vizService := service.NewVisualizationService()

	analysisHandler := handler.NewAnalysisHandler(analysisService, searcher)
	vizHandler := handler.NewVisualizationHandler(analysisService, vizService)

	router := api.SetupRouter(cfg, analysisHandler, vizHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
