package domain

import "time"

// PriceObservation is one collected price point. Observations are append-only;
// the same (store, item) pair may appear on many dates.
type PriceObservation struct {
	Date    time.Time `json:"date"`
	StoreID string    `json:"storeId"`
	ItemID  string    `json:"itemId"`
	Price   float64   `json:"price"`
}

// Store is one entry in the store directory, produced by a collection run
// and read-only afterwards.
type Store struct {
	ID       string  `json:"storeId"`
	Name     string  `json:"name"`
	Category string  `json:"category"` // supermarket, wholesale, discount, convenience, specialty, other
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Distance float64 `json:"distance"` // miles from the home location
}

// DefaultTargetMargin is assumed for catalog entries that do not specify one.
const DefaultTargetMargin = 0.20

// Item is one entry in the item catalog.
type Item struct {
	ID           string  `json:"itemId"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	TargetMargin float64 `json:"targetMargin"` // desired gross-margin fraction in [0,1]
}

// Snapshot is an immutable view of the three input tables. The engine takes a
// snapshot by value and never mutates it, so concurrent computations over the
// same snapshot need no coordination.
type Snapshot struct {
	Observations []PriceObservation `json:"observations"`
	Stores       []Store            `json:"stores"`
	Items        []Item             `json:"items"`
	LoadedAt     time.Time          `json:"loadedAt"`
}

// StoreByID looks up a store in the directory.
func (s *Snapshot) StoreByID(id string) (Store, bool) {
	for _, st := range s.Stores {
		if st.ID == id {
			return st, true
		}
	}
	return Store{}, false
}

// RecommendationRow is the per-item output of the recommendation engine for a
// fixed home store on the latest observed date. Every derived field is a
// Value so that a missing home price or an empty competitor set shows up as
// an explicit marker rather than a zero.
type RecommendationRow struct {
	ItemID       string  `json:"itemId"`
	ItemName     string  `json:"itemName"`
	Category     string  `json:"category"`
	TargetMargin float64 `json:"targetMargin"`

	HomePrice              Value `json:"homePrice"`
	AvgPrice               Value `json:"avgPrice"`
	MinPrice               Value `json:"minPrice"`
	MaxPrice               Value `json:"maxPrice"`
	EstimatedCost          Value `json:"estimatedCost"`
	CurrentMargin          Value `json:"currentMargin"`
	MarginGap              Value `json:"marginGap"`
	RecommendedPrice       Value `json:"recommendedPrice"`
	PriceDifference        Value `json:"priceDifference"`
	PriceDifferencePercent Value `json:"priceDifferencePercent"`
}

// Market position and competitiveness labels for impact rows.
const (
	PositionAboveAverage = "above average"
	PositionBelowAverage = "below average"
	PositionUnknown      = "unknown"

	MoreCompetitive        = "more competitive"
	LessCompetitive        = "less competitive"
	CompetitivenessUnknown = "unknown"
)

// ImpactRow describes the effect of one proposed price change.
type ImpactRow struct {
	ItemID         string `json:"itemId"`
	ItemName       string `json:"itemName"`
	OldPrice       Value  `json:"oldPrice"`
	NewPrice       Value  `json:"newPrice"`
	Change         Value  `json:"change"`
	ChangePercent  Value  `json:"changePercent"`
	MarketPosition string `json:"marketPosition"`
	Competitive    string `json:"competitiveness"`
}

// CategorySummary aggregates recommendation rows of one item category. Each
// mean is computed independently over only the rows that define the underlying
// field; a category with no defining rows yields an undefined mean.
type CategorySummary struct {
	Category                   string `json:"category"`
	ItemCount                  int    `json:"itemCount"`
	MeanCurrentMargin          Value  `json:"meanCurrentMargin"`
	MeanTargetMargin           Value  `json:"meanTargetMargin"`
	MeanMarginGap              Value  `json:"meanMarginGap"`
	MeanPriceDifferencePercent Value  `json:"meanPriceDifferencePercent"`
}
