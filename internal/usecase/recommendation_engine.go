package usecase

import (
	"time"

	"github.com/shelfaware/backend/internal/domain"
)

// costFactor converts a competitor-average price into an implied supplier
// cost, assuming the market average carries a 30% upstream gross margin.
const costFactor = 0.70

// Undefined-value reasons shared by the engine and its tests.
const (
	reasonNoHomePrice   = "no home store observation on the evaluation date"
	reasonNoCompetitors = "no competitor observations on the evaluation date"
	reasonZeroHomePrice = "home price is zero"
	reasonZeroAvgPrice  = "competitor average is zero"
	reasonMarginTooHigh = "target margin is 1.0 or above"
	reasonNoMargin      = "current margin is undefined"
	reasonNoCost        = "estimated cost is undefined"
	reasonNoDifference  = "price difference is undefined"
)

// ComputeRecommendations produces one RecommendationRow per catalog item for
// the given home store on the latest observed date. It is a pure function of
// the snapshot: identical inputs yield identical output, and concurrent calls
// over the same snapshot are safe.
//
// Competitor statistics only consider observations on the latest date and
// always exclude the home store's own row. A missing home observation makes
// that item's row undefined without aborting the rest of the batch.
func ComputeRecommendations(snap *domain.Snapshot, homeStoreID string) ([]domain.RecommendationRow, error) {
	if snap == nil {
		return nil, domain.ErrNoSnapshot
	}
	if len(snap.Observations) == 0 {
		return nil, domain.ErrEmptyDataset
	}

	latest := latestDate(snap.Observations)

	rows := make([]domain.RecommendationRow, 0, len(snap.Items))
	for _, item := range snap.Items {
		rows = append(rows, recommendItem(snap.Observations, item, homeStoreID, latest))
	}
	return rows, nil
}

// latestDate returns the maximum date present in the observation table.
func latestDate(obs []domain.PriceObservation) time.Time {
	latest := obs[0].Date
	for _, o := range obs[1:] {
		if o.Date.After(latest) {
			latest = o.Date
		}
	}
	return latest
}

func recommendItem(obs []domain.PriceObservation, item domain.Item, homeStoreID string, date time.Time) domain.RecommendationRow {
	row := domain.RecommendationRow{
		ItemID:       item.ID,
		ItemName:     item.Name,
		Category:     item.Category,
		TargetMargin: item.TargetMargin,
	}

	var homePrice float64
	homeSeen := false
	var competitors []float64
	for _, o := range obs {
		if o.ItemID != item.ID || !o.Date.Equal(date) {
			continue
		}
		if o.StoreID == homeStoreID {
			// First observation wins if the table has duplicates.
			if !homeSeen {
				homePrice = o.Price
				homeSeen = true
			}
			continue
		}
		competitors = append(competitors, o.Price)
	}

	if homeSeen {
		row.HomePrice = domain.Defined(homePrice)
	} else {
		row.HomePrice = domain.Undefined(reasonNoHomePrice)
	}

	if len(competitors) == 0 {
		row.AvgPrice = domain.Undefined(reasonNoCompetitors)
		row.MinPrice = domain.Undefined(reasonNoCompetitors)
		row.MaxPrice = domain.Undefined(reasonNoCompetitors)
		row.EstimatedCost = domain.Undefined(reasonNoCompetitors)
	} else {
		avg, min, max := priceStats(competitors)
		row.AvgPrice = domain.Defined(avg)
		row.MinPrice = domain.Defined(min)
		row.MaxPrice = domain.Defined(max)
		row.EstimatedCost = domain.Defined(avg * costFactor)
	}

	row.CurrentMargin = currentMargin(row.HomePrice, row.EstimatedCost)
	row.MarginGap = marginGap(row.CurrentMargin, item.TargetMargin)
	row.RecommendedPrice = recommendedPrice(row.EstimatedCost, item.TargetMargin)
	row.PriceDifference, row.PriceDifferencePercent = priceDifference(row.HomePrice, row.AvgPrice)

	return row
}

func priceStats(prices []float64) (avg, min, max float64) {
	min, max = prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return sum / float64(len(prices)), min, max
}

// currentMargin is (home - cost) / home, undefined when the home price is
// absent or zero or the cost is undefined.
func currentMargin(home, cost domain.Value) domain.Value {
	h, ok := home.Float64()
	if !ok {
		return domain.Undefined(reasonNoHomePrice)
	}
	c, ok := cost.Float64()
	if !ok {
		return domain.Undefined(reasonNoCost)
	}
	if h == 0 {
		return domain.Undefined(reasonZeroHomePrice)
	}
	return domain.Defined((h - c) / h)
}

func marginGap(current domain.Value, target float64) domain.Value {
	c, ok := current.Float64()
	if !ok {
		return domain.Undefined(reasonNoMargin)
	}
	return domain.Defined(c - target)
}

// recommendedPrice is cost / (1 - target), undefined when the cost is
// undefined or the target margin leaves nothing to divide by.
func recommendedPrice(cost domain.Value, target float64) domain.Value {
	c, ok := cost.Float64()
	if !ok {
		return domain.Undefined(reasonNoCost)
	}
	if target >= 1 {
		return domain.Undefined(reasonMarginTooHigh)
	}
	return domain.Defined(c / (1 - target))
}

func priceDifference(home, avg domain.Value) (diff, percent domain.Value) {
	h, hok := home.Float64()
	a, aok := avg.Float64()
	if !hok {
		return domain.Undefined(reasonNoHomePrice), domain.Undefined(reasonNoHomePrice)
	}
	if !aok {
		return domain.Undefined(reasonNoCompetitors), domain.Undefined(reasonNoCompetitors)
	}
	d := h - a
	diff = domain.Defined(d)
	if a == 0 {
		return diff, domain.Undefined(reasonZeroAvgPrice)
	}
	return diff, domain.Defined(d / a * 100)
}
