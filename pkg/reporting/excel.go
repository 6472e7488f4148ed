package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/cyclelab/token-cycles/pkg/types"
)

// WriteWorkbookXLSX writes the analysis results as a spreadsheet with
// Tokens, Summary and Sensitivity sheets, for readers who want to slice the
// data outside the website.
func WriteWorkbookXLSX(tokens []*types.Token, summary *types.SummaryStats, sensitivity []types.SensitivityResult, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const (
		tokensSheet      = "Tokens"
		summarySheet     = "Summary"
		sensitivitySheet = "Sensitivity"
	)
	fx.SetSheetName(fx.GetSheetName(0), tokensSheet)
	if _, err := fx.NewSheet(summarySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(sensitivitySheet); err != nil {
		return err
	}

	headerStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeTokensSheet(fx, tokensSheet, tokens, headerStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(fx, summarySheet, summary, headerStyle); err != nil {
		return err
	}
	if err := writeSensitivitySheet(fx, sensitivitySheet, sensitivity, headerStyle); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func writeTokensSheet(fx *excelize.File, sheet string, tokens []*types.Token, headerStyle int) error {
	headers := []string{
		"Symbol", "Name", "Category", "Launch Date", "Cycle", "Cycle Type",
		"Age (d)", "ROI", "Annualized ROI", "ROI vs BTC", "Drawdown", "Rank", "Delisted",
	}
	if err := writeHeaderRow(fx, sheet, headers, headerStyle); err != nil {
		return err
	}

	for i, t := range tokens {
		row := i + 2
		values := []any{
			t.Symbol, t.Name, strDeref(t.Category), strDeref(t.LaunchDate),
			strDeref(t.CycleName), strDeref(t.CycleType),
			intCell(t.AgeDays), floatCell(t.ROISinceLaunch), floatCell(t.AnnualizedROI),
			floatCell(t.ROIvsBTC), floatCell(t.DrawdownFromATH), intCell(t.MarketCapRank),
			t.BinanceDelisted,
		}
		if err := writeRow(fx, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(fx *excelize.File, sheet string, summary *types.SummaryStats, headerStyle int) error {
	headers := []string{"Cycle Type", "Tokens", "Median ROI", "Median Ann. ROI", "Median vs BTC", "Top-100 Fraction", "Delist Rate"}
	if err := writeHeaderRow(fx, sheet, headers, headerStyle); err != nil {
		return err
	}

	cycleTypes := make([]string, 0, len(summary.TokensByCycleType))
	for ct := range summary.TokensByCycleType {
		cycleTypes = append(cycleTypes, ct)
	}
	sort.Strings(cycleTypes)

	for i, ct := range cycleTypes {
		values := []any{
			ct,
			summary.TokensByCycleType[ct],
			floatCell(summary.MedianROIByCycleType[ct]),
			floatCell(summary.MedianAnnualizedROIByCycleType[ct]),
			floatCell(summary.MedianROIvsBTCByCycleType[ct]),
			floatCell(summary.FractionTop100ByCycleType[ct]),
			floatCell(summary.DelistRateByCycleType[ct]),
		}
		if err := writeRow(fx, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeSensitivitySheet(fx *excelize.File, sheet string, results []types.SensitivityResult, headerStyle int) error {
	headers := []string{"Shift (months)", "p-value", "Effect Size", "Bull n", "Bear n", "Significant"}
	if err := writeHeaderRow(fx, sheet, headers, headerStyle); err != nil {
		return err
	}
	for i, r := range results {
		values := []any{
			r.ShiftMonths, floatCell(r.PValue), floatCell(r.EffectSize),
			r.BullN, r.BearN, r.Significant,
		}
		if err := writeRow(fx, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeaderRow(fx *excelize.File, sheet string, headers []string, style int) error {
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(fx *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func intCell(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
