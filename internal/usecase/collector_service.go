package usecase

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/shelfaware/backend/internal/domain"
)

// CollectorServiceConfig holds configuration for a collection run
type CollectorServiceConfig struct {
	Location    string  // free-form place query, e.g. "Livonia, Louisiana, USA"
	RadiusMiles float64 // search radius around the geocoded location
	SampleDays  int     // trailing window for synthetic observations
	Seed        int64   // 0 seeds from the clock
}

/// CollectorService populates the dataset tables: it discovers nearby stores
// through geocoding + Overpass, and fills the observation table either with
// synthetic demo prices or with LLM estimates.
type CollectorService struct {
	geocoder  domain.Geocoder
	finder    domain.StoreFinder
	estimator domain.PriceEstimator
	rng       *rand.Rand
	config    CollectorServiceConfig
}

// NewCollectorService creates a new collector service with dependencies.
// The estimator may be nil when only discovery and sample modes are used.
func NewCollectorService(
	geocoder domain.Geocoder,
	finder domain.StoreFinder,
	estimator domain.PriceEstimator,
	config CollectorServiceConfig,
) *CollectorService {
	if config.RadiusMiles <= 0 {
		config.RadiusMiles = 50
	}
	if config.SampleDays <= 0 {
		config.SampleDays = 30
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &CollectorService{
		geocoder:  geocoder,
		finder:    finder,
		estimator: estimator,
		rng:       rand.New(rand.NewSource(seed)),
		config:    config,
	}
}

// DiscoverStores geocodes the configured location and enumerates grocery
// stores around it, assigning sequential ids ordered nearest-first.
func (c *CollectorService) DiscoverStores(ctx context.Context) ([]domain.Store, error) {
	lat, lon, err := c.geocoder.Geocode(ctx, c.config.Location)
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", c.config.Location, err)
	}
	log.Printf("[collector] %q resolved to (%.4f, %.4f)", c.config.Location, lat, lon)

	stores, err := c.finder.FindStores(ctx, lat, lon, c.config.RadiusMiles)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].Distance < stores[j].Distance
	})
	for i := range stores {
		stores[i].ID = strconv.Itoa(i + 1)
	}
	log.Printf("[collector] found %d stores within %.0f miles", len(stores), c.config.RadiusMiles)
	return stores, nil
}

// categoryMultipliers skew synthetic prices the way the store type does in
// practice: discounters undercut, convenience and pharmacy chains mark up.
var categoryMultipliers = map[string]float64{
	"supermarket":      1.0,
	"wholesale":        0.9,
	"discount":         0.85,
	"convenience":      1.2,
	"pharmacy":         1.3,
	"specialty":        0.95,
	"department_store": 1.0,
}

// GenerateSampleObservations builds a synthetic observation table: one price
// per (day, store, item) over the trailing sample window, derived from the
// item's base price, the store category multiplier, and a uniform ±5% jitter.
func (c *CollectorService) GenerateSampleObservations(stores []domain.Store, items []domain.Item, now time.Time) []domain.PriceObservation {
	obs := make([]domain.PriceObservation, 0, c.config.SampleDays*len(stores)*len(items))
	day := now.Truncate(24 * time.Hour)

	for d := 0; d < c.config.SampleDays; d++ {
		date := day.AddDate(0, 0, -d)
		for _, store := range stores {
			mult, ok := categoryMultipliers[store.Category]
			if !ok {
				mult = 1.0
			}
			for _, item := range items {
				base := baseSamplePrice(item)
				jitter := 0.95 + c.rng.Float64()*0.10
				price := roundCents(base * mult * jitter)
				obs = append(obs, domain.PriceObservation{
					Date:    date,
					StoreID: store.ID,
					ItemID:  item.ID,
					Price:   price,
				})
			}
		}
	}
	return obs
}

// baseSamplePrice picks the demo base price for an item, falling back to a
// per-category default for items outside the sample catalog.
func baseSamplePrice(item domain.Item) float64 {
	if p, ok := sampleBasePrices[item.Name]; ok {
		return p
	}
	if p, ok := categoryBasePrices[item.Category]; ok {
		return p
	}
	return 3.99
}

// EstimateObservations asks the price estimator for one price per
// (store, item) pair, dated today. Pairs the estimator cannot price are
// logged and skipped so a flaky model does not sink the whole run.
func (c *CollectorService) EstimateObservations(ctx context.Context, stores []domain.Store, items []domain.Item, now time.Time) ([]domain.PriceObservation, error) {
	if c.estimator == nil {
		return nil, fmt.Errorf("%w: no price estimator configured", domain.ErrEstimateFailure)
	}
	date := now.Truncate(24 * time.Hour)

	var obs []domain.PriceObservation
	for _, store := range stores {
		for _, item := range items {
			price, err := c.estimator.EstimatePrice(ctx, store.Name, item.Name)
			if err != nil {
				if ctx.Err() != nil {
					return obs, ctx.Err()
				}
				log.Printf("[collector] skipping %s at %s: %v", item.Name, store.Name, err)
				continue
			}
			obs = append(obs, domain.PriceObservation{
				Date:    date,
				StoreID: store.ID,
				ItemID:  item.ID,
				Price:   price,
			})
		}
	}
	return obs, nil
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
