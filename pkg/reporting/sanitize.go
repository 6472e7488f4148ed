package reporting

import (
	"math"

	"github.com/cyclelab/token-cycles/pkg/types"
)

// JSON has no NaN or Infinity literal, and encoding/json refuses to emit
// them. Sanitization nils every non-finite float pointer before export so
// analysis artifacts always serialize, with absence marked as null.

func finite(v *float64) *float64 {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// SanitizeToken nils non-finite numeric fields in place.
func SanitizeToken(t *types.Token) {
	t.CurrentPrice = finite(t.CurrentPrice)
	t.MarketCap = finite(t.MarketCap)
	t.ATH = finite(t.ATH)
	t.ATL = finite(t.ATL)
	t.LaunchPrice = finite(t.LaunchPrice)
	t.LaunchMarketCap = finite(t.LaunchMarketCap)
	t.TotalSupply = finite(t.TotalSupply)
	t.ROISinceLaunch = finite(t.ROISinceLaunch)
	t.AnnualizedROI = finite(t.AnnualizedROI)
	t.ROIvsBTC = finite(t.ROIvsBTC)
	t.DrawdownFromATH = finite(t.DrawdownFromATH)
}

// SanitizeSummary nils non-finite numeric fields in place.
func SanitizeSummary(s *types.SummaryStats) {
	for _, m := range []map[string]*float64{
		s.MedianROIByCycleType,
		s.MedianAnnualizedROIByCycleType,
		s.MedianROIvsBTCByCycleType,
		s.FractionTop100ByCycleType,
		s.MedianDrawdownByCycleType,
		s.DelistRateByCycleType,
	} {
		for k, v := range m {
			m[k] = finite(v)
		}
	}

	s.BullVsBearPValue = finite(s.BullVsBearPValue)
	s.BullVsBearEffectSize = finite(s.BullVsBearEffectSize)
	s.BullVsBearMedianDiff = finite(s.BullVsBearMedianDiff)
	s.BullVsBearCILower = finite(s.BullVsBearCILower)
	s.BullVsBearCIUpper = finite(s.BullVsBearCIUpper)
	s.BTCRelPValue = finite(s.BTCRelPValue)
	s.BTCRelEffectSize = finite(s.BTCRelEffectSize)
	s.BTCRelMedianDiff = finite(s.BTCRelMedianDiff)
	s.BTCRelCILower = finite(s.BTCRelCILower)
	s.BTCRelCIUpper = finite(s.BTCRelCIUpper)

	for i := range s.BestPerformers {
		sanitizeDigest(&s.BestPerformers[i])
	}
	for i := range s.WorstPerformers {
		sanitizeDigest(&s.WorstPerformers[i])
	}
}

func sanitizeDigest(d *types.PerformerDigest) {
	d.AnnualizedROI = finite(d.AnnualizedROI)
	d.ROISinceLaunch = finite(d.ROISinceLaunch)
	d.ROIvsBTC = finite(d.ROIvsBTC)
}

// SanitizeSensitivity nils non-finite test statistics in place.
func SanitizeSensitivity(results []types.SensitivityResult) {
	for i := range results {
		results[i].PValue = finite(results[i].PValue)
		results[i].EffectSize = finite(results[i].EffectSize)
	}
}

// SanitizeRobustness nils non-finite test statistics in place.
func SanitizeRobustness(results []types.RobustnessResult) {
	for i := range results {
		results[i].PValue = finite(results[i].PValue)
		results[i].EffectSize = finite(results[i].EffectSize)
	}
}
