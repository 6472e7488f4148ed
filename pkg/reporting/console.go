package reporting

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/cyclelab/token-cycles/pkg/types"
)

// PrintSummary renders the key findings of an analysis run as console
// tables.
func PrintSummary(summary *types.SummaryStats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("ANALYSIS OVERVIEW")
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"Tokens analyzed", summary.TotalTokens},
		{"With launch date", summary.TokensWithLaunchDate},
		{"Excluded stablecoins", summary.TokensExcludedStablecoin},
		{"Excluded wrapped", summary.TokensExcludedWrapped},
		{"Dead tokens imputed", summary.TokensImputedDead},
	})
	t.Render()
	fmt.Println()

	printCycleTable(summary)
	printTestTable(summary)
}

func printCycleTable(summary *types.SummaryStats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BY CYCLE TYPE")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Cycle", "Tokens", "Median ROI", "Median Ann. ROI", "Median vs BTC", "Top-100", "Delist Rate"})

	cycleTypes := make([]string, 0, len(summary.TokensByCycleType))
	for ct := range summary.TokensByCycleType {
		cycleTypes = append(cycleTypes, ct)
	}
	sort.Strings(cycleTypes)

	for _, ct := range cycleTypes {
		t.AppendRow(table.Row{
			ct,
			summary.TokensByCycleType[ct],
			percent(summary.MedianROIByCycleType[ct]),
			percent(summary.MedianAnnualizedROIByCycleType[ct]),
			percent(summary.MedianROIvsBTCByCycleType[ct]),
			percent(summary.FractionTop100ByCycleType[ct]),
			percent(summary.DelistRateByCycleType[ct]),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
	fmt.Println()
}

func printTestTable(summary *types.SummaryStats) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BULL vs BEAR (Mann-Whitney U)")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Metric", "p-value", "Effect Size", "Median Diff", "95% CI"})
	t.AppendRows([]table.Row{
		{
			"Annualized ROI",
			number(summary.BullVsBearPValue),
			number(summary.BullVsBearEffectSize),
			number(summary.BullVsBearMedianDiff),
			ci(summary.BullVsBearCILower, summary.BullVsBearCIUpper),
		},
		{
			"ROI vs BTC",
			number(summary.BTCRelPValue),
			number(summary.BTCRelEffectSize),
			number(summary.BTCRelMedianDiff),
			ci(summary.BTCRelCILower, summary.BTCRelCIUpper),
		},
	})
	t.Render()
	fmt.Println()
}

// PrintSensitivity renders the boundary-shift study.
func PrintSensitivity(results []types.SensitivityResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BOUNDARY-SHIFT SENSITIVITY")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Shift (mo)", "p-value", "Effect Size", "Bull n", "Bear n", "Significant"})
	for _, r := range results {
		t.AppendRow(table.Row{
			fmt.Sprintf("%+d", r.ShiftMonths),
			number(r.PValue), number(r.EffectSize), r.BullN, r.BearN, r.Significant,
		})
	}
	t.Render()
	fmt.Println()
}

// PrintRobustness renders the moving-average regime study.
func PrintRobustness(results []types.RobustnessResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("BTC MOVING-AVERAGE ROBUSTNESS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Window (d)", "p-value", "Effect Size", "Bull n", "Bear n", "Significant"})
	for _, r := range results {
		t.AppendRow(table.Row{
			r.Window,
			number(r.PValue), number(r.EffectSize), r.BullN, r.BearN, r.Significant,
		})
	}
	t.Render()
	fmt.Println()
}

func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func ci(lower, upper *float64) string {
	if lower == nil || upper == nil {
		return "-"
	}
	return fmt.Sprintf("[%.4f, %.4f]", *lower, *upper)
}
