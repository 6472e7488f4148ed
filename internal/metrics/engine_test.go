package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/pkg/types"
)

func ms(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func flatBTCSeries(price float64) *types.PriceSeries {
	s := &types.PriceSeries{}
	for y := 2019; y <= 2024; y++ {
		for m := time.January; m <= time.December; m++ {
			s.Prices = append(s.Prices, types.PricePoint{TimestampMs: ms(y, m, 1), Price: price})
		}
	}
	return s
}

func newToken(launchDate string, launchPrice, currentPrice float64) *types.Token {
	return &types.Token{
		ID:           "tok",
		Symbol:       "TOK",
		Name:         "Token",
		LaunchDate:   types.String(launchDate),
		LaunchPrice:  types.Float(launchPrice),
		CurrentPrice: types.Float(currentPrice),
	}
}

func TestCompute_ROISinceLaunch(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 100)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.ROISinceLaunch)
	assert.InDelta(t, 9.0, *tok.ROISinceLaunch, 1e-12)
}

func TestCompute_ROIAbsentForZeroLaunchPrice(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 0, 100)
	engine.Compute([]*types.Token{tok}, eval)

	assert.Nil(t, tok.ROISinceLaunch)
	assert.Nil(t, tok.AnnualizedROI)
}

func TestCompute_ZeroCurrentPriceIsTotalLoss(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 0)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.ROISinceLaunch)
	assert.InDelta(t, -1.0, *tok.ROISinceLaunch, 1e-12)
	require.NotNil(t, tok.AnnualizedROI)
	assert.InDelta(t, -1.0, *tok.AnnualizedROI, 1e-12)
}

func TestCompute_AnnualizedROI(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))

	// 10x over 1461 days (4 years incl. one leap day) is roughly 78%/yr.
	tok := newToken("2020-06-01", 1, 10)
	eval := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1461)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.AgeDays)
	assert.Equal(t, 1461, *tok.AgeDays)
	require.NotNil(t, tok.AnnualizedROI)
	assert.Greater(t, *tok.AnnualizedROI, 0.70)
	assert.Less(t, *tok.AnnualizedROI, 0.85)
}

func TestCompute_AnnualizedROIAbsentUnderOneYear(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2023-08-01", 1, 10)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.ROISinceLaunch)
	assert.Nil(t, tok.AnnualizedROI)
}

func TestCompute_ROIvsBTCFlatBenchmark(t *testing.T) {
	// With a flat BTC series the excess return equals the token's own ROI.
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 100)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.ROIvsBTC)
	assert.InDelta(t, 9.0, *tok.ROIvsBTC, 1e-9)
}

func TestCompute_ROIvsBTCAbsentOutsideLookupWindow(t *testing.T) {
	// The only BTC samples are more than 30 days from the launch date.
	btc := &types.PriceSeries{Prices: []types.PricePoint{
		{TimestampMs: ms(2019, 1, 1), Price: 100},
		{TimestampMs: ms(2024, 1, 1), Price: 200},
	}}
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), btc)
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2021-06-01", 10, 100)
	engine.Compute([]*types.Token{tok}, eval)

	assert.Nil(t, tok.ROIvsBTC)
}

func TestCompute_DrawdownFromATH(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 50)
	tok.ATH = types.Float(200)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.DrawdownFromATH)
	assert.InDelta(t, 0.75, *tok.DrawdownFromATH, 1e-12)
}

func TestCompute_DrawdownClampedAtZeroAboveATH(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 150)
	tok.ATH = types.Float(100)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.DrawdownFromATH)
	assert.Equal(t, 0.0, *tok.DrawdownFromATH)
}

func TestCompute_CycleAssignment(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2021-01-15", 1, 2)
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.CycleName)
	assert.Equal(t, "2020-2021 Bull", *tok.CycleName)
	require.NotNil(t, tok.CycleType)
	assert.Equal(t, "Bull", *tok.CycleType)
}

func TestCompute_UnknownCycleForMissingLaunchDate(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := &types.Token{ID: "tok", Symbol: "TOK", Name: "Token"}
	engine.Compute([]*types.Token{tok}, eval)

	require.NotNil(t, tok.CycleType)
	assert.Equal(t, "Unknown", *tok.CycleType)
	assert.Nil(t, tok.AgeDays)
	assert.Nil(t, tok.ROISinceLaunch)
}

func TestCompute_Idempotent(t *testing.T) {
	engine := NewEngine(cycles.NewClassifier(cycles.Default()), flatBTCSeries(100))
	eval := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tok := newToken("2020-06-01", 10, 100)
	tok.ATH = types.Float(200)

	engine.Compute([]*types.Token{tok}, eval)
	first := *tok
	engine.Compute([]*types.Token{tok}, eval)

	assert.Equal(t, *first.ROISinceLaunch, *tok.ROISinceLaunch)
	assert.Equal(t, *first.AnnualizedROI, *tok.AnnualizedROI)
	assert.Equal(t, *first.ROIvsBTC, *tok.ROIvsBTC)
	assert.Equal(t, *first.DrawdownFromATH, *tok.DrawdownFromATH)
}
