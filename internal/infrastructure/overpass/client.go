// Package overpass enumerates grocery-selling stores around a point using
// the OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/shelfaware/backend/internal/domain"
)

const milesToMeters = 1609.34

// shopTypes are the OSM node selectors that can sell groceries.
var shopTypes = []string{
	`node["shop"="supermarket"]`,
	`node["shop"="convenience"]`,
	`node["shop"="wholesale"]`,
	`node["shop"="department_store"]`,
	`node["amenity"="marketplace"]`,
	`node["shop"="general"]`,
	`node["shop"="variety_store"]`,
	`node["shop"="mall"]`,
}

// Client handles communication with the Overpass API
type Client struct {
	http        *resty.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Overpass client. The public interpreter endpoint
// tolerates roughly one heavy query every few seconds.
func NewClient(baseURL string) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(60 * time.Second)

	return &Client{
		http:        httpClient,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(0.5), 3),
	}
}

type element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type response struct {
	Elements []element `json:"elements"`
}

// FindStores queries Overpass for grocery-selling nodes within radiusMiles of
// the given point and maps them to the store directory shape, nearest-first
// and deduplicated.
func (c *Client) FindStores(ctx context.Context, lat, lon, radiusMiles float64) ([]domain.Store, error) {
	query := buildQuery(lat, lon, radiusMiles)

	// Retry up to 3 times for transient failures; Overpass sheds load with
	// 429/504 when busy.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("data", query).
			Get(c.baseURL + "/api/interpreter")
		if err != nil {
			log.Printf("[overpass] request error (attempt %d): %v", attempt, err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrOverpassFailure, err)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}
		if resp.StatusCode() != http.StatusOK {
			log.Printf("[overpass] API error (attempt %d) - Status: %d", attempt, resp.StatusCode())
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOverpassFailure, resp.StatusCode())
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var parsed response
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrOverpassFailure, err)
		}

		stores := mapElements(parsed.Elements, lat, lon)
		log.Printf("[overpass] %d nodes -> %d unique stores within %.0f miles",
			len(parsed.Elements), len(stores), radiusMiles)
		return stores, nil
	}

	return nil, lastErr
}

// buildQuery renders the Overpass QL union over all grocery shop types.
func buildQuery(lat, lon, radiusMiles float64) string {
	radiusMeters := radiusMiles * milesToMeters
	q := "[out:json][timeout:25];\n(\n"
	for _, sel := range shopTypes {
		q += fmt.Sprintf("  %s(around:%.0f,%f,%f);\n", sel, radiusMeters, lat, lon)
	}
	q += ");\nout body;"
	return q
}
