package domain

import "context"

// DatasetRepository loads and persists the three input tables. Loading returns
// a fresh immutable snapshot; the engine never reads storage directly.
type DatasetRepository interface {
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveStores(ctx context.Context, stores []Store) error
	SaveItems(ctx context.Context, items []Item) error
	AppendObservations(ctx context.Context, obs []PriceObservation) error
}

// Geocoder resolves a free-form place query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat, lon float64, err error)
}

// StoreFinder enumerates grocery-selling stores around a point.
type StoreFinder interface {
	FindStores(ctx context.Context, lat, lon, radiusMiles float64) ([]Store, error)
}

// PriceEstimator produces a price guess for an item at a store.
type PriceEstimator interface {
	EstimatePrice(ctx context.Context, storeName, itemName string) (float64, error)
}
