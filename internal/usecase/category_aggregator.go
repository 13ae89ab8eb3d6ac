package usecase

import (
	"sort"

	"github.com/shelfaware/backend/internal/domain"
)

// AggregateByCategory groups recommendation rows by item category. Each mean
// is computed independently over only the rows that define the underlying
// field, so one item with a missing home price still contributes its defined
// fields to the other aggregates.
func AggregateByCategory(recs []domain.RecommendationRow) []domain.CategorySummary {
	byCategory := make(map[string][]domain.RecommendationRow)
	order := make([]string, 0)
	for _, rec := range recs {
		if _, ok := byCategory[rec.Category]; !ok {
			order = append(order, rec.Category)
		}
		byCategory[rec.Category] = append(byCategory[rec.Category], rec)
	}
	sort.Strings(order)

	summaries := make([]domain.CategorySummary, 0, len(order))
	for _, cat := range order {
		rows := byCategory[cat]
		summaries = append(summaries, domain.CategorySummary{
			Category:  cat,
			ItemCount: len(rows),
			MeanCurrentMargin: meanOf(rows, func(r domain.RecommendationRow) domain.Value {
				return r.CurrentMargin
			}),
			MeanTargetMargin: meanOf(rows, func(r domain.RecommendationRow) domain.Value {
				return domain.Defined(r.TargetMargin)
			}),
			MeanMarginGap: meanOf(rows, func(r domain.RecommendationRow) domain.Value {
				return r.MarginGap
			}),
			MeanPriceDifferencePercent: meanOf(rows, func(r domain.RecommendationRow) domain.Value {
				return r.PriceDifferencePercent
			}),
		})
	}
	return summaries
}

// meanOf averages the defined values of one field across the given rows.
// A field with zero defining rows yields an undefined mean.
func meanOf(rows []domain.RecommendationRow, field func(domain.RecommendationRow) domain.Value) domain.Value {
	sum := 0.0
	n := 0
	for _, row := range rows {
		if v, ok := field(row).Float64(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return domain.Undefined("no rows define this field")
	}
	return domain.Defined(sum / float64(n))
}
