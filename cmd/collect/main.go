// Command collect populates the dataset tables. It runs in one of three
// modes:
//
//	discover  geocode the target location and pull nearby grocery stores
//	          from OpenStreetMap into the store directory
//	sample    fill the tables with a bundled store directory and a month of
//	          synthetic price observations, no network required
//	estimate  ask an LLM for today's price of every (store, item) pair and
//	          append the answers to the observation table
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shelfaware/backend/internal/domain"
	"github.com/shelfaware/backend/internal/infrastructure/csvstore"
	"github.com/shelfaware/backend/internal/infrastructure/nominatim"
	"github.com/shelfaware/backend/internal/infrastructure/openai"
	"github.com/shelfaware/backend/internal/infrastructure/overpass"
	"github.com/shelfaware/backend/internal/infrastructure/sqlitestore"
	"github.com/shelfaware/backend/internal/usecase"
)

// Zachary, Louisiana. Used as the center for the bundled sample directory.
const (
	defaultLat = 30.6485
	defaultLon = -91.1565
)

func main() {
	// Load .env if present; real environment variables win.
	_ = godotenv.Load()

	var (
		mode     = flag.String("mode", "sample", "collection mode: discover, sample or estimate")
		backend  = flag.String("backend", "csv", "dataset backend: csv or sqlite")
		dataDir  = flag.String("data", "./data", "directory for the CSV tables")
		dbPath   = flag.String("db", "./data/shelfaware.db", "path to the SQLite database")
		location = flag.String("location", "Zachary, Louisiana", "place to search around")
		radius   = flag.Float64("radius", 50, "search radius in miles")
		days     = flag.Int("days", 30, "trailing days of synthetic observations")
		seed     = flag.Int64("seed", 0, "random seed for synthetic prices (0 = from clock)")
		lat      = flag.Float64("lat", defaultLat, "center latitude for sample mode")
		lon      = flag.Float64("lon", defaultLon, "center longitude for sample mode")
	)
	flag.Parse()

	repo, cleanup, err := openRepository(*backend, *dataDir, *dbPath)
	if err != nil {
		log.Fatalf("open repository: %v", err)
	}
	defer cleanup()

	collector := usecase.NewCollectorService(
		nominatim.NewClient(envOr("SHELFAWARE_GEO_NOMINATIM_URL", "https://nominatim.openstreetmap.org")),
		overpass.NewClient(envOr("SHELFAWARE_GEO_OVERPASS_URL", "https://overpass-api.de")),
		estimatorFromEnv(),
		usecase.CollectorServiceConfig{
			Location:    *location,
			RadiusMiles: *radius,
			SampleDays:  *days,
			Seed:        *seed,
		},
	)

	ctx := context.Background()

	switch *mode {
	case "discover":
		runDiscover(ctx, collector, repo)
	case "sample":
		runSample(ctx, collector, repo, *lat, *lon, *radius)
	case "estimate":
		runEstimate(ctx, collector, repo)
	default:
		log.Fatalf("unknown mode %q (want discover, sample or estimate)", *mode)
	}
}

func runDiscover(ctx context.Context, collector *usecase.CollectorService, repo domain.DatasetRepository) {
	stores, err := collector.DiscoverStores(ctx)
	if err != nil {
		log.Fatalf("discover stores: %v", err)
	}
	if err := repo.SaveStores(ctx, stores); err != nil {
		log.Fatalf("save stores: %v", err)
	}
	if err := repo.SaveItems(ctx, usecase.SampleItems()); err != nil {
		log.Fatalf("save items: %v", err)
	}
	log.Printf("saved %d stores and the default item catalog", len(stores))
}

func runSample(ctx context.Context, collector *usecase.CollectorService, repo domain.DatasetRepository, lat, lon, radius float64) {
	stores := usecase.SampleStores(lat, lon, radius)
	items := usecase.SampleItems()
	obs := collector.GenerateSampleObservations(stores, items, time.Now().UTC())

	if err := repo.SaveStores(ctx, stores); err != nil {
		log.Fatalf("save stores: %v", err)
	}
	if err := repo.SaveItems(ctx, items); err != nil {
		log.Fatalf("save items: %v", err)
	}
	if err := repo.AppendObservations(ctx, obs); err != nil {
		log.Fatalf("append observations: %v", err)
	}
	log.Printf("saved %d stores, %d items, %d observations", len(stores), len(items), len(obs))
}

func runEstimate(ctx context.Context, collector *usecase.CollectorService, repo domain.DatasetRepository) {
	snap, err := repo.LoadSnapshot(ctx)
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}
	if len(snap.Stores) == 0 || len(snap.Items) == 0 {
		log.Fatal("no stores or items on record; run discover or sample first")
	}

	obs, err := collector.EstimateObservations(ctx, snap.Stores, snap.Items, time.Now().UTC())
	if err != nil {
		log.Fatalf("estimate prices: %v", err)
	}
	if err := repo.AppendObservations(ctx, obs); err != nil {
		log.Fatalf("append observations: %v", err)
	}
	log.Printf("appended %d estimated observations", len(obs))
}

func openRepository(backend, dataDir, dbPath string) (domain.DatasetRepository, func(), error) {
	if backend == "sqlite" {
		repo, err := sqlitestore.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nil, err
	}
	return csvstore.NewRepository(dataDir), func() {}, nil
}

// estimatorFromEnv returns nil when no API key is configured. Estimate mode
// fails with a clear error in that case; the other modes never touch it.
func estimatorFromEnv() domain.PriceEstimator {
	key := envOr("SHELFAWARE_OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		return nil
	}
	return openai.NewEstimator(
		key,
		envOr("SHELFAWARE_OPENAI_BASE_URL", "https://api.openai.com"),
		envOr("SHELFAWARE_OPENAI_MODEL", "gpt-4o-mini"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
	log.SetOutput(os.Stdout)
}
