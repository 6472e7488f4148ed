package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclelab/token-cycles/pkg/types"
)

// makeGroup builds n classified tokens of one cycle type whose annualized
// ROIs step upward from base.
func makeGroup(cycleType string, n int, base float64) []*types.Token {
	out := make([]*types.Token, n)
	for i := 0; i < n; i++ {
		roi := base + float64(i)*0.01
		out[i] = &types.Token{
			ID:             fmt.Sprintf("%s-%d", cycleType, i),
			Symbol:         fmt.Sprintf("%s%d", cycleType, i),
			Name:           fmt.Sprintf("%s token %d", cycleType, i),
			CycleType:      types.String(cycleType),
			CycleName:      types.String(cycleType + " cycle"),
			LaunchDate:     types.String("2020-06-01"),
			AnnualizedROI:  types.Float(roi),
			ROISinceLaunch: types.Float(roi * 2),
		}
	}
	return out
}

func TestComputeSummary_GroupCountsAndMedians(t *testing.T) {
	tokens := append(makeGroup("Bull", 3, 1.0), makeGroup("Bear", 2, -0.5)...)

	s := ComputeSummary(tokens)
	assert.Equal(t, 5, s.TotalTokens)
	assert.Equal(t, 5, s.TokensWithLaunchDate)
	assert.Equal(t, 3, s.TokensByCycleType["Bull"])
	assert.Equal(t, 2, s.TokensByCycleType["Bear"])

	require.NotNil(t, s.MedianAnnualizedROIByCycleType["Bull"])
	assert.InDelta(t, 1.01, *s.MedianAnnualizedROIByCycleType["Bull"], 1e-12)
	require.NotNil(t, s.MedianAnnualizedROIByCycleType["Bear"])
	assert.InDelta(t, -0.495, *s.MedianAnnualizedROIByCycleType["Bear"], 1e-12)
}

func TestComputeSummary_TestRequiresMinimumSamples(t *testing.T) {
	tokens := append(makeGroup("Bull", 5, 1.0), makeGroup("Bear", 5, -0.5)...)

	s := ComputeSummary(tokens)
	assert.Nil(t, s.BullVsBearPValue)
	assert.Nil(t, s.BullVsBearEffectSize)
	require.NotNil(t, s.BullN)
	assert.Equal(t, 5, *s.BullN)
	require.NotNil(t, s.BearN)
	assert.Equal(t, 5, *s.BearN)
}

func TestComputeSummary_TestRunsAtMinimumSamples(t *testing.T) {
	tokens := append(makeGroup("Bull", 25, 1.0), makeGroup("Bear", 25, -0.5)...)

	s := ComputeSummary(tokens)
	require.NotNil(t, s.BullVsBearPValue)
	assert.Less(t, *s.BullVsBearPValue, 0.05)
	require.NotNil(t, s.BullVsBearEffectSize)
	assert.Greater(t, *s.BullVsBearEffectSize, 0.0)
	require.NotNil(t, s.BullVsBearMedianDiff)
	require.NotNil(t, s.BullVsBearCILower)
	require.NotNil(t, s.BullVsBearCIUpper)
	require.NotNil(t, s.BullN)
	assert.Equal(t, 25, *s.BullN)
}

func TestComputeSummary_SampleSizesAbsentWhenEmpty(t *testing.T) {
	tokens := makeGroup("Bull", 3, 1.0)

	s := ComputeSummary(tokens)
	require.NotNil(t, s.BullN)
	assert.Nil(t, s.BearN)
}

func TestComputeSummary_ExcludesContaminants(t *testing.T) {
	stable := &types.Token{ID: "usdt", Symbol: "USDT", Name: "Tether", Category: types.String(CategoryStablecoin)}
	wrapped := &types.Token{ID: "wbtc", Symbol: "WBTC", Name: "Wrapped BTC", Category: types.String(CategoryWrapped)}
	tokens := append(makeGroup("Bull", 2, 1.0), stable, wrapped)

	s := ComputeSummary(tokens)
	assert.Equal(t, 2, s.TotalTokens)
	assert.Equal(t, 1, s.TokensExcludedStablecoin)
	assert.Equal(t, 1, s.TokensExcludedWrapped)
}

func TestComputeSummary_ImputesDeadTokens(t *testing.T) {
	dead := &types.Token{
		ID: "dead", Symbol: "DEAD", Name: "Dead",
		CycleType:       types.String("Bear"),
		BinanceDelisted: true,
		AgeDays:         types.Int(900),
	}

	s := ComputeSummary([]*types.Token{dead})
	assert.Equal(t, 1, s.TokensImputedDead)
	require.NotNil(t, dead.AnnualizedROI)
	assert.Equal(t, -1.0, *dead.AnnualizedROI)
}

func TestComputeSummary_DelistRateAndTop100(t *testing.T) {
	tokens := makeGroup("Bull", 4, 1.0)
	tokens[0].BinanceDelisted = true
	tokens[1].MarketCapRank = types.Int(50)
	tokens[2].MarketCapRank = types.Int(150)

	s := ComputeSummary(tokens)
	require.NotNil(t, s.DelistRateByCycleType["Bull"])
	assert.Equal(t, 0.25, *s.DelistRateByCycleType["Bull"])
	require.NotNil(t, s.FractionTop100ByCycleType["Bull"])
	assert.Equal(t, 0.25, *s.FractionTop100ByCycleType["Bull"])
}

func TestRankPerformers_TopAndBottom(t *testing.T) {
	tokens := makeGroup("Bull", 30, 0.0)

	best, worst := rankPerformers(tokens)
	require.Len(t, best, 10)
	require.Len(t, worst, 10)

	assert.Equal(t, "Bull-29", best[0].ID)
	assert.Equal(t, "Bull-0", worst[9].ID)
	for i := 1; i < len(best); i++ {
		assert.GreaterOrEqual(t, *best[i-1].AnnualizedROI, *best[i].AnnualizedROI)
	}
}

func TestRankPerformers_SkipsAbsentROI(t *testing.T) {
	tokens := makeGroup("Bull", 3, 1.0)
	tokens = append(tokens, &types.Token{ID: "noroi", Symbol: "X", Name: "X"})

	best, worst := rankPerformers(tokens)
	assert.Len(t, best, 3)
	assert.Len(t, worst, 3)
}
