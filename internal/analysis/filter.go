package analysis

import (
	"strings"

	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	// CategoryStablecoin labels tokens pegged to fiat.
	CategoryStablecoin = "Stablecoin"
	// CategoryWrapped labels wrapped, bridged and liquid-staking assets
	// that track another asset rather than carrying their own performance.
	CategoryWrapped = "Wrapped"
)

// stablecoinSymbols guards against upstream miscategorization: a token whose
// symbol is in this set is excluded as a stablecoin no matter its category.
var stablecoinSymbols = map[string]struct{}{
	"ust": {}, "susd": {}, "tusdb": {}, "bgbp": {}, "busd": {}, "usdt": {},
	"usdc": {}, "tusd": {}, "dai": {}, "fdusd": {}, "usds": {}, "usde": {},
	"usd1": {}, "xusd": {}, "rlusd": {}, "gusd": {}, "pax": {}, "eurs": {},
}

// IsStablecoinSymbol reports whether the symbol belongs to the fixed
// stablecoin set. Shared with the collector's category taxonomy.
func IsStablecoinSymbol(symbol string) bool {
	_, ok := stablecoinSymbols[strings.ToLower(symbol)]
	return ok
}

// FilterTokens removes stablecoins and wrapped assets from the working set.
// The stablecoin check takes priority over the wrapped check. Remaining
// tokens keep their original relative order.
func FilterTokens(tokens []*types.Token) (kept []*types.Token, nStablecoin, nWrapped int) {
	kept = make([]*types.Token, 0, len(tokens))
	for _, t := range tokens {
		category := ""
		if t.Category != nil {
			category = *t.Category
		}
		switch {
		case category == CategoryStablecoin || IsStablecoinSymbol(t.Symbol):
			nStablecoin++
		case category == CategoryWrapped:
			nWrapped++
		default:
			kept = append(kept, t)
		}
	}
	return kept, nStablecoin, nWrapped
}

// ImputeDeadTokens assigns a total-loss outcome to tokens that are delisted
// and have neither a computed ROI nor a current price. Without imputation
// these tokens would silently drop out of every test and bias results toward
// survivors. Annualized ROI is imputed as well when absent and the token is
// older than a year, so dead tokens enter the primary hypothesis test.
// Idempotent: an already-imputed token has a non-nil ROI and is skipped.
func ImputeDeadTokens(tokens []*types.Token) int {
	count := 0
	for _, t := range tokens {
		if !t.BinanceDelisted || t.ROISinceLaunch != nil || t.CurrentPrice != nil {
			continue
		}
		t.ROISinceLaunch = types.Float(-1.0)
		if t.AnnualizedROI == nil && t.AgeDays != nil && *t.AgeDays > 365 {
			t.AnnualizedROI = types.Float(-1.0)
		}
		count++
	}
	return count
}
