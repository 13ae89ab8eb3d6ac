// Package export renders recommendation output as an Excel workbook for
// offline review.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/shelfaware/backend/internal/domain"
)

const (
	recommendationsSheet = "Recommendations"
	categoriesSheet      = "Categories"
)

var recommendationHeader = []string{
	"Item ID", "Item", "Category", "Your Price", "Market Average", "Market Min",
	"Market Max", "Estimated Cost", "Recommended Price", "Price Difference",
	"Price Difference (%)", "Current Margin", "Target Margin", "Margin Gap",
}

var categoryHeader = []string{
	"Category", "Items", "Mean Current Margin", "Mean Target Margin",
	"Mean Margin Gap", "Mean Price Difference (%)",
}

// WriteWorkbook writes recommendations and category summaries as a two-sheet
// workbook. Undefined values render as "N/A".
func WriteWorkbook(w io.Writer, recs []domain.RecommendationRow, cats []domain.CategorySummary) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", recommendationsSheet)
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("create categories sheet: %w", err)
	}

	if err := writeRows(f, recommendationsSheet, recommendationHeader, recommendationRows(recs)); err != nil {
		return err
	}
	if err := writeRows(f, categoriesSheet, categoryHeader, categoryRows(cats)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func recommendationRows(recs []domain.RecommendationRow) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			r.ItemID, r.ItemName, r.Category,
			cell(r.HomePrice), cell(r.AvgPrice), cell(r.MinPrice), cell(r.MaxPrice),
			cell(r.EstimatedCost), cell(r.RecommendedPrice), cell(r.PriceDifference),
			cell(r.PriceDifferencePercent), cell(r.CurrentMargin), r.TargetMargin,
			cell(r.MarginGap),
		})
	}
	return rows
}

func categoryRows(cats []domain.CategorySummary) [][]any {
	rows := make([][]any, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []any{
			c.Category, c.ItemCount,
			cell(c.MeanCurrentMargin), cell(c.MeanTargetMargin),
			cell(c.MeanMarginGap), cell(c.MeanPriceDifferencePercent),
		})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// cell converts a Value to a spreadsheet cell: the raw number when defined,
// the literal "N/A" otherwise.
func cell(v domain.Value) any {
	if f, ok := v.Float64(); ok {
		return f
	}
	return "N/A"
}
