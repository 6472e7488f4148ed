package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyclelab/token-cycles/pkg/types"
)

func tok(symbol, category string) *types.Token {
	t := &types.Token{ID: symbol, Symbol: symbol, Name: symbol}
	if category != "" {
		t.Category = types.String(category)
	}
	return t
}

func TestFilterTokens_ExcludesStablecoinsAndWrapped(t *testing.T) {
	in := []*types.Token{
		tok("BTC", "Layer 1"),
		tok("USDT", "Stablecoin"),
		tok("WBTC", "Wrapped"),
		tok("ETH", "Layer 1"),
	}

	kept, nStable, nWrapped := FilterTokens(in)
	require.Len(t, kept, 2)
	assert.Equal(t, "BTC", kept[0].Symbol)
	assert.Equal(t, "ETH", kept[1].Symbol)
	assert.Equal(t, 1, nStable)
	assert.Equal(t, 1, nWrapped)
}

func TestFilterTokens_SymbolOverridesCategory(t *testing.T) {
	// A stablecoin miscategorized upstream is still excluded, and counted as
	// a stablecoin even if its category says Wrapped.
	in := []*types.Token{
		tok("BUSD", "DeFi"),
		tok("DAI", "Wrapped"),
	}

	kept, nStable, nWrapped := FilterTokens(in)
	assert.Empty(t, kept)
	assert.Equal(t, 2, nStable)
	assert.Equal(t, 0, nWrapped)
}

func TestFilterTokens_MissingCategoryKept(t *testing.T) {
	kept, _, _ := FilterTokens([]*types.Token{tok("SOL", "")})
	assert.Len(t, kept, 1)
}

func TestIsStablecoinSymbol_CaseInsensitive(t *testing.T) {
	assert.True(t, IsStablecoinSymbol("usdt"))
	assert.True(t, IsStablecoinSymbol("USDT"))
	assert.False(t, IsStablecoinSymbol("btc"))
}

func TestImputeDeadTokens(t *testing.T) {
	dead := tok("DEAD", "Other")
	dead.BinanceDelisted = true
	dead.AgeDays = types.Int(730)

	young := tok("YOUNG", "Other")
	young.BinanceDelisted = true
	young.AgeDays = types.Int(200)

	n := ImputeDeadTokens([]*types.Token{dead, young})
	assert.Equal(t, 2, n)

	require.NotNil(t, dead.ROISinceLaunch)
	assert.Equal(t, -1.0, *dead.ROISinceLaunch)
	require.NotNil(t, dead.AnnualizedROI)
	assert.Equal(t, -1.0, *dead.AnnualizedROI)

	require.NotNil(t, young.ROISinceLaunch)
	assert.Equal(t, -1.0, *young.ROISinceLaunch)
	assert.Nil(t, young.AnnualizedROI, "under a year gets no annualized imputation")
}

func TestImputeDeadTokens_SkipsTokensWithPrice(t *testing.T) {
	alive := tok("ALIVE", "Other")
	alive.BinanceDelisted = true
	alive.CurrentPrice = types.Float(0.5)

	n := ImputeDeadTokens([]*types.Token{alive})
	assert.Equal(t, 0, n)
	assert.Nil(t, alive.ROISinceLaunch)
}

func TestImputeDeadTokens_SkipsListedTokens(t *testing.T) {
	listed := tok("LIVE", "Other")

	n := ImputeDeadTokens([]*types.Token{listed})
	assert.Equal(t, 0, n)
	assert.Nil(t, listed.ROISinceLaunch)
}

func TestImputeDeadTokens_Idempotent(t *testing.T) {
	dead := tok("DEAD", "Other")
	dead.BinanceDelisted = true
	dead.AgeDays = types.Int(730)

	first := ImputeDeadTokens([]*types.Token{dead})
	second := ImputeDeadTokens([]*types.Token{dead})
	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}
