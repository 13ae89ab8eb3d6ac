package usecase

import (
	"log"

	"github.com/shelfaware/backend/internal/domain"
)

// ComputeImpact evaluates a batch of proposed prices against the current
// recommendations. Output follows recommendation order; proposals for items
// absent from the recommendation set are logged and skipped rather than
// failing the batch.
func ComputeImpact(recs []domain.RecommendationRow, proposed map[string]float64) []domain.ImpactRow {
	rows := make([]domain.ImpactRow, 0, len(proposed))
	seen := make(map[string]bool, len(proposed))

	for _, rec := range recs {
		newPrice, ok := proposed[rec.ItemID]
		if !ok {
			continue
		}
		seen[rec.ItemID] = true
		rows = append(rows, impactRow(rec, newPrice))
	}

	for itemID := range proposed {
		if !seen[itemID] {
			log.Printf("[impact] ignoring proposed price for unknown item %q", itemID)
		}
	}
	return rows
}

func impactRow(rec domain.RecommendationRow, newPrice float64) domain.ImpactRow {
	row := domain.ImpactRow{
		ItemID:   rec.ItemID,
		ItemName: rec.ItemName,
		OldPrice: rec.HomePrice,
		NewPrice: domain.Defined(newPrice),
	}

	if old, ok := rec.HomePrice.Float64(); ok {
		change := newPrice - old
		row.Change = domain.Defined(change)
		if old == 0 {
			row.ChangePercent = domain.Undefined(reasonZeroHomePrice)
		} else {
			row.ChangePercent = domain.Defined(change / old * 100)
		}
	} else {
		row.Change = domain.Undefined(reasonNoHomePrice)
		row.ChangePercent = domain.Undefined(reasonNoHomePrice)
	}

	// A tie with the market average counts as below average.
	if avg, ok := rec.AvgPrice.Float64(); ok {
		if newPrice > avg {
			row.MarketPosition = domain.PositionAboveAverage
		} else {
			row.MarketPosition = domain.PositionBelowAverage
		}
		if newPrice < avg {
			row.Competitive = domain.MoreCompetitive
		} else {
			row.Competitive = domain.LessCompetitive
		}
	} else {
		row.MarketPosition = domain.PositionUnknown
		row.Competitive = domain.CompetitivenessUnknown
	}
	return row
}
