package main

import (
	"fmt"
	"log"
	"os"

	"github.com/shelfaware/backend/config"
	httpDelivery "github.com/shelfaware/backend/internal/delivery/http"
	"github.com/shelfaware/backend/internal/domain"
	"github.com/shelfaware/backend/internal/infrastructure/cache"
	"github.com/shelfaware/backend/internal/infrastructure/csvstore"
	"github.com/shelfaware/backend/internal/infrastructure/sqlitestore"
	"github.com/shelfaware/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ShelfAware Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Data backend: %s", cfg.Data.Backend)

	// Initialize the dataset repository
	var repo domain.DatasetRepository
	switch cfg.Data.Backend {
	case "sqlite":
		sqlRepo, err := sqlitestore.Open(cfg.Data.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite store: %v", err)
		}
		defer sqlRepo.Close()
		repo = sqlRepo
		log.Printf("SQLite store: %s", cfg.Data.SQLitePath)
	default:
		repo = csvstore.NewRepository(cfg.Data.Dir)
		log.Printf("CSV store: %s", cfg.Data.Dir)
	}

	snapshots := cache.NewSnapshotCache(repo)

	// Initialize usecase layer
	pricingService := usecase.NewPricingService(snapshots, usecase.PricingServiceConfig{
		HomeStoreID: cfg.Pricing.HomeStoreID,
	})

	log.Printf("Home store: %s", cfg.Pricing.HomeStoreID)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(pricingService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
