// Package nominatim implements forward geocoding against the OpenStreetMap
// Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/shelfaware/backend/internal/domain"
)

const userAgent = "shelfaware/1.0 (grocery price comparison)"

// Client handles communication with the Nominatim geocoding API
type Client struct {
	http        *resty.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates a new Nominatim client. The public instance's usage
// policy allows at most one request per second.
func NewClient(baseURL string) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(30 * time.Second)
	httpClient.SetHeader("User-Agent", userAgent)

	return &Client{
		http:        httpClient,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-form place query to coordinates, taking the first
// (best-ranked) search result.
func (c *Client) Geocode(ctx context.Context, query string) (float64, float64, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"format": "json",
			"limit":  "1",
		}).
		Get(c.baseURL + "/search")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrGeocodeFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		log.Printf("[nominatim] search failed - Status: %d, Body: %s", resp.StatusCode(), resp.String())
		return 0, 0, fmt.Errorf("%w: status %d", domain.ErrGeocodeFailure, resp.StatusCode())
	}

	var results []searchResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return 0, 0, fmt.Errorf("%w: decode response: %v", domain.ErrGeocodeFailure, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: no results for %q", domain.ErrGeocodeFailure, query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad latitude %q", domain.ErrGeocodeFailure, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad longitude %q", domain.ErrGeocodeFailure, results[0].Lon)
	}

	log.Printf("[nominatim] %q -> %s (%.4f, %.4f)", query, results[0].DisplayName, lat, lon)
	return lat, lon, nil
}
