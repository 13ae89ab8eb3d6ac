package usecase

import (
	"testing"

	"github.com/shelfaware/backend/internal/domain"
)

func milkRecommendation() domain.RecommendationRow {
	return domain.RecommendationRow{
		ItemID:    "1",
		ItemName:  "Milk",
		Category:  "Dairy",
		HomePrice: domain.Defined(3.00),
		AvgPrice:  domain.Defined(4.50),
	}
}

func TestComputeImpact(t *testing.T) {
	t.Run("computes change and labels for a proposed price", func(t *testing.T) {
		rows := ComputeImpact([]domain.RecommendationRow{milkRecommendation()}, map[string]float64{"1": 3.50})
		if len(rows) != 1 {
			t.Fatalf("len(rows) = %d, want 1", len(rows))
		}
		row := rows[0]

		if got := definedOrFail(t, row.Change, "Change"); !almostEqual(got, 0.50) {
			t.Errorf("Change = %v, want 0.50", got)
		}
		if got := definedOrFail(t, row.ChangePercent, "ChangePercent"); !almostEqual(got, 0.50/3.00*100) {
			t.Errorf("ChangePercent = %v, want %v", got, 0.50/3.00*100)
		}
		if row.MarketPosition != domain.PositionBelowAverage {
			t.Errorf("MarketPosition = %q, want %q", row.MarketPosition, domain.PositionBelowAverage)
		}
		if row.Competitive != domain.MoreCompetitive {
			t.Errorf("Competitiveness = %q, want %q", row.Competitive, domain.MoreCompetitive)
		}
	})

	t.Run("classifies a tie with the average as below average", func(t *testing.T) {
		rows := ComputeImpact([]domain.RecommendationRow{milkRecommendation()}, map[string]float64{"1": 4.50})
		row := rows[0]
		if row.MarketPosition != domain.PositionBelowAverage {
			t.Errorf("MarketPosition = %q, want %q", row.MarketPosition, domain.PositionBelowAverage)
		}
		if row.Competitive != domain.LessCompetitive {
			t.Errorf("Competitiveness = %q, want %q", row.Competitive, domain.LessCompetitive)
		}
	})

	t.Run("classifies a price above the average", func(t *testing.T) {
		rows := ComputeImpact([]domain.RecommendationRow{milkRecommendation()}, map[string]float64{"1": 5.00})
		if rows[0].MarketPosition != domain.PositionAboveAverage {
			t.Errorf("MarketPosition = %q, want %q", rows[0].MarketPosition, domain.PositionAboveAverage)
		}
	})

	t.Run("zero old price leaves change percent undefined", func(t *testing.T) {
		rec := milkRecommendation()
		rec.HomePrice = domain.Defined(0)
		rows := ComputeImpact([]domain.RecommendationRow{rec}, map[string]float64{"1": 1.00})
		row := rows[0]
		if got := definedOrFail(t, row.Change, "Change"); !almostEqual(got, 1.00) {
			t.Errorf("Change = %v, want 1.00", got)
		}
		if row.ChangePercent.IsDefined() {
			t.Error("ChangePercent should be undefined for a zero old price")
		}
	})

	t.Run("undefined home price leaves change undefined", func(t *testing.T) {
		rec := milkRecommendation()
		rec.HomePrice = domain.Undefined("missing")
		rows := ComputeImpact([]domain.RecommendationRow{rec}, map[string]float64{"1": 1.00})
		if rows[0].Change.IsDefined() || rows[0].ChangePercent.IsDefined() {
			t.Error("change fields should be undefined without an old price")
		}
	})

	t.Run("undefined average yields unknown labels", func(t *testing.T) {
		rec := milkRecommendation()
		rec.AvgPrice = domain.Undefined("no competitors")
		rows := ComputeImpact([]domain.RecommendationRow{rec}, map[string]float64{"1": 3.50})
		if rows[0].MarketPosition != domain.PositionUnknown {
			t.Errorf("MarketPosition = %q, want %q", rows[0].MarketPosition, domain.PositionUnknown)
		}
		if rows[0].Competitive != domain.CompetitivenessUnknown {
			t.Errorf("Competitiveness = %q, want %q", rows[0].Competitive, domain.CompetitivenessUnknown)
		}
	})

	t.Run("ignores proposals for items outside the recommendation set", func(t *testing.T) {
		rows := ComputeImpact([]domain.RecommendationRow{milkRecommendation()}, map[string]float64{
			"1":   3.50,
			"999": 1.00,
		})
		if len(rows) != 1 {
			t.Errorf("len(rows) = %d, want 1 (unknown item skipped)", len(rows))
		}
	})

	t.Run("preserves recommendation order", func(t *testing.T) {
		recA := milkRecommendation()
		recB := milkRecommendation()
		recB.ItemID = "2"
		recB.ItemName = "Eggs"
		rows := ComputeImpact([]domain.RecommendationRow{recA, recB}, map[string]float64{
			"2": 5.00,
			"1": 3.50,
		})
		if len(rows) != 2 || rows[0].ItemID != "1" || rows[1].ItemID != "2" {
			t.Errorf("rows out of order: %+v", rows)
		}
	})
}
