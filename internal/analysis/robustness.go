package analysis

import (
	"math"
	"time"

	"github.com/cyclelab/token-cycles/internal/indicators"
	"github.com/cyclelab/token-cycles/pkg/types"
)

// maWindows are the trailing SMA windows (days) for the regime robustness
// study.
var maWindows = []int{50, 100, 200, 300}

// snapSearchDays is how far the launch date is searched outward for a day
// with SMA data before the token is skipped.
const snapSearchDays = 7

// ComputeMARobustness replaces the hand-labeled cycle table with a
// data-driven regime definition: a token launched while Bitcoin traded above
// its trailing N-day SMA counts as bull-regime, otherwise bear-regime. The
// same guarded test runs once per window.
func ComputeMARobustness(tokens []*types.Token, btc *types.PriceSeries) []types.RobustnessResult {
	tokens, _, _ = FilterTokens(tokens)
	ImputeDeadTokens(tokens)

	days, daily := btc.Daily()
	prices := make([]float64, len(days))
	dayIndex := make(map[time.Time]int, len(days))
	for i, d := range days {
		prices[i] = daily[d]
		dayIndex[d] = i
	}

	results := make([]types.RobustnessResult, 0, len(maWindows))
	for _, window := range maWindows {
		sma := indicators.NewSMA(window).Series(prices)

		var bullROIs, bearROIs []float64
		for _, t := range tokens {
			if t.LaunchDate == nil || t.AnnualizedROI == nil ||
				math.IsNaN(*t.AnnualizedROI) || math.IsInf(*t.AnnualizedROI, 0) {
				continue
			}
			launch, err := time.ParseInLocation("2006-01-02", *t.LaunchDate, time.UTC)
			if err != nil {
				continue
			}
			idx, ok := snapToSMADay(launch, dayIndex, sma)
			if !ok {
				continue
			}
			if prices[idx] > sma[idx] {
				bullROIs = append(bullROIs, *t.AnnualizedROI)
			} else {
				bearROIs = append(bearROIs, *t.AnnualizedROI)
			}
		}

		entry := buildEntry(0, bullROIs, bearROIs)
		results = append(results, types.RobustnessResult{
			Window:      window,
			PValue:      entry.PValue,
			EffectSize:  entry.EffectSize,
			BullN:       entry.BullN,
			BearN:       entry.BearN,
			Significant: entry.Significant,
		})
	}
	return results
}

// snapToSMADay finds the launch day in the daily index, searching outward
// one day at a time (later first, then earlier) up to snapSearchDays when
// the exact day has no SMA value.
func snapToSMADay(launch time.Time, dayIndex map[time.Time]int, sma []float64) (int, bool) {
	if idx, ok := dayIndex[launch]; ok && !math.IsNaN(sma[idx]) {
		return idx, true
	}
	for offset := 1; offset <= snapSearchDays; offset++ {
		d := time.Duration(offset) * 24 * time.Hour
		for _, candidate := range []time.Time{launch.Add(d), launch.Add(-d)} {
			if idx, ok := dayIndex[candidate]; ok && !math.IsNaN(sma[idx]) {
				return idx, true
			}
		}
	}
	return 0, false
}
