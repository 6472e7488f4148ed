package analysis

import (
	"math"
	"time"

	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/pkg/types"
)

// boundaryShiftsMonths are the perturbations applied to the cycle boundaries,
// approximated as 30-day multiples.
var boundaryShiftsMonths = []int{-2, -1, 0, 1, 2}

// ComputeSensitivity re-runs the Bull-vs-Bear test under shifted cycle
// boundaries. Shifting every launch date backward by d is equivalent to
// translating all boundaries forward by d, which holds exactly for bounded
// and semi-open ranges under uniform translation. Always returns one entry
// per shift, in order. The effect size is reported whenever both groups are
// non-empty; the p-value keeps the MinSampleSize guard.
func ComputeSensitivity(tokens []*types.Token, classifier *cycles.Classifier) []types.SensitivityResult {
	tokens, _, _ = FilterTokens(tokens)
	ImputeDeadTokens(tokens)

	results := make([]types.SensitivityResult, 0, len(boundaryShiftsMonths))
	for _, shiftMonths := range boundaryShiftsMonths {
		shift := time.Duration(shiftMonths) * 30 * 24 * time.Hour

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
			shifted := launch.Add(-shift)
			switch classifier.Classify(&shifted).Type {
			case cycles.TypeBull:
				bullROIs = append(bullROIs, *t.AnnualizedROI)
			case cycles.TypeBear:
				bearROIs = append(bearROIs, *t.AnnualizedROI)
			}
		}

		results = append(results, buildEntry(shiftMonths, bullROIs, bearROIs))
	}
	return results
}

// buildEntry runs the guarded test for one perturbation and packages the
// result row.
func buildEntry(shiftMonths int, bullROIs, bearROIs []float64) types.SensitivityResult {
	entry := types.SensitivityResult{
		ShiftMonths: shiftMonths,
		BullN:       len(bullROIs),
		BearN:       len(bearROIs),
	}
	if len(bullROIs) > 0 && len(bearROIs) > 0 {
		u, _ := mannWhitneyU(bullROIs, bearROIs)
		entry.EffectSize = types.Float(rankBiserial(u, len(bullROIs), len(bearROIs)))
	}
	if len(bullROIs) >= MinSampleSize && len(bearROIs) >= MinSampleSize {
		_, p := mannWhitneyU(bullROIs, bearROIs)
		entry.PValue = types.Float(p)
		entry.Significant = p < SignificanceLevel
	}
	return entry
}
