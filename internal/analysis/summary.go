package analysis

import (
	"sort"

	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/pkg/types"
)

const performerListSize = 10

// groupByCycleType buckets tokens by their attached cycle type, skipping
// Unknown and unclassified tokens.
func groupByCycleType(tokens []*types.Token) map[string][]*types.Token {
	groups := make(map[string][]*types.Token)
	for _, t := range tokens {
		if t.CycleType == nil || *t.CycleType == string(cycles.TypeUnknown) || *t.CycleType == "" {
			continue
		}
		groups[*t.CycleType] = append(groups[*t.CycleType], t)
	}
	return groups
}

// collect pulls one metric out of a token group, dropping absent values.
func collect(group []*types.Token, field func(*types.Token) *float64) []float64 {
	values := make([]float64, 0, len(group))
	for _, t := range group {
		if v := field(t); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// testSample is the metric restricted to present, finite values — the only
// inputs the statistical test is allowed to see.
func testSample(group []*types.Token, field func(*types.Token) *float64) []float64 {
	return finiteValues(collect(group, field))
}

// ComputeSummary filters contaminants, imputes dead tokens, then builds the
// per-cycle-type aggregates, the performer digests and the Bull-vs-Bear
// hypothesis tests. Mutates the surviving tokens in place (imputation only).
func ComputeSummary(tokens []*types.Token) *types.SummaryStats {
	tokens, nStable, nWrapped := FilterTokens(tokens)
	nImputed := ImputeDeadTokens(tokens)

	withLaunchDate := 0
	for _, t := range tokens {
		if t.LaunchDate != nil {
			withLaunchDate++
		}
	}

	groups := groupByCycleType(tokens)

	summary := &types.SummaryStats{
		TotalTokens:          len(tokens),
		TokensWithLaunchDate: withLaunchDate,
		TokensByCycleType:    make(map[string]int, len(groups)),

		MedianROIByCycleType:           make(map[string]*float64, len(groups)),
		MedianAnnualizedROIByCycleType: make(map[string]*float64, len(groups)),
		MedianROIvsBTCByCycleType:      make(map[string]*float64, len(groups)),
		FractionTop100ByCycleType:      make(map[string]*float64, len(groups)),
		MedianDrawdownByCycleType:      make(map[string]*float64, len(groups)),
		DelistRateByCycleType:          make(map[string]*float64, len(groups)),

		TokensExcludedStablecoin: nStable,
		TokensExcludedWrapped:    nWrapped,
		TokensImputedDead:        nImputed,
	}

	for cycleType, group := range groups {
		summary.TokensByCycleType[cycleType] = len(group)

		summary.MedianROIByCycleType[cycleType] = median(collect(group, roiField))
		summary.MedianAnnualizedROIByCycleType[cycleType] = median(collect(group, annROIField))
		summary.MedianROIvsBTCByCycleType[cycleType] = median(collect(group, btcROIField))
		summary.MedianDrawdownByCycleType[cycleType] = median(collect(group, func(t *types.Token) *float64 { return t.DrawdownFromATH }))

		inTop100 := 0
		delisted := 0
		for _, t := range group {
			if t.MarketCapRank != nil && *t.MarketCapRank <= 100 {
				inTop100++
			}
			if t.BinanceDelisted {
				delisted++
			}
		}
		summary.FractionTop100ByCycleType[cycleType] = types.Float(float64(inTop100) / float64(len(group)))
		summary.DelistRateByCycleType[cycleType] = types.Float(float64(delisted) / float64(len(group)))
	}

	// Bull vs Bear on annualized ROI
	bullAnn := testSample(groups[string(cycles.TypeBull)], annROIField)
	bearAnn := testSample(groups[string(cycles.TypeBear)], annROIField)
	annTest := runTest(bullAnn, bearAnn)
	summary.BullVsBearPValue = annTest.PValue
	summary.BullVsBearEffectSize = annTest.EffectSize
	summary.BullVsBearMedianDiff = annTest.MedianDiff
	summary.BullVsBearCILower = annTest.CILower
	summary.BullVsBearCIUpper = annTest.CIUpper
	if len(bullAnn) > 0 {
		summary.BullN = types.Int(len(bullAnn))
	}
	if len(bearAnn) > 0 {
		summary.BearN = types.Int(len(bearAnn))
	}

	// Bull vs Bear on BTC-relative ROI
	bullBTC := testSample(groups[string(cycles.TypeBull)], btcROIField)
	bearBTC := testSample(groups[string(cycles.TypeBear)], btcROIField)
	btcTest := runTest(bullBTC, bearBTC)
	summary.BTCRelPValue = btcTest.PValue
	summary.BTCRelEffectSize = btcTest.EffectSize
	summary.BTCRelMedianDiff = btcTest.MedianDiff
	summary.BTCRelCILower = btcTest.CILower
	summary.BTCRelCIUpper = btcTest.CIUpper

	summary.BestPerformers, summary.WorstPerformers = rankPerformers(tokens)

	return summary
}

func roiField(t *types.Token) *float64    { return t.ROISinceLaunch }
func annROIField(t *types.Token) *float64 { return t.AnnualizedROI }
func btcROIField(t *types.Token) *float64 { return t.ROIvsBTC }

// rankPerformers sorts tokens with a known annualized ROI descending and
// digests the top and bottom ten. The sort is stable over the input order so
// repeated runs produce identical lists even under ROI ties.
func rankPerformers(tokens []*types.Token) (best, worst []types.PerformerDigest) {
	ranked := make([]*types.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.AnnualizedROI != nil {
			ranked = append(ranked, t)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].AnnualizedROI > *ranked[j].AnnualizedROI
	})

	digest := func(ts []*types.Token) []types.PerformerDigest {
		out := make([]types.PerformerDigest, len(ts))
		for i, t := range ts {
			out[i] = types.PerformerDigest{
				ID:              t.ID,
				Symbol:          t.Symbol,
				Name:            t.Name,
				CycleType:       t.CycleType,
				CycleName:       t.CycleName,
				AnnualizedROI:   t.AnnualizedROI,
				ROISinceLaunch:  t.ROISinceLaunch,
				ROIvsBTC:        t.ROIvsBTC,
				MarketCapRank:   t.MarketCapRank,
				BinanceDelisted: t.BinanceDelisted,
			}
		}
		return out
	}

	top := performerListSize
	if top > len(ranked) {
		top = len(ranked)
	}
	bottom := performerListSize
	if bottom > len(ranked) {
		bottom = len(ranked)
	}
	return digest(ranked[:top]), digest(ranked[len(ranked)-bottom:])
}
