package collector

import (
	"strings"

	"github.com/cyclelab/token-cycles/internal/analysis"
)

// categoryRule maps raw CoinGecko category tags onto one simplified label.
// Rules run in priority order: stablecoins and wrapped assets are checked
// first so that e.g. sUSD never lands in DeFi.
type categoryRule struct {
	label   string
	matches func(cat string) bool
}

func anyOf(substrings ...string) func(string) bool {
	return func(cat string) bool {
		for _, s := range substrings {
			if strings.Contains(cat, s) {
				return true
			}
		}
		return false
	}
}

var categoryRules = []categoryRule{
	{analysis.CategoryStablecoin, func(cat string) bool {
		// "stablecoin issuer" governance tokens are not stablecoins.
		return strings.Contains(cat, "stablecoin") && !strings.Contains(cat, "issuer")
	}},
	{analysis.CategoryWrapped, anyOf("wrapped", "bridged", "liquid staking")},
	{"Meme", anyOf("meme")},
	{"L1", anyOf("layer 1", "smart contract")},
	{"L2", anyOf("layer 2", "rollup")},
	{"DeFi", anyOf("defi", "decentralized finance", "dex", "lending")},
	{"Exchange", anyOf("exchange")},
	{"Infrastructure", anyOf("oracle", "infrastructure", "interop", "bridge")},
	{"Gaming/NFT", anyOf("gaming", "metaverse", "nft")},
	{"AI/Storage", anyOf("storage", "ai", "artificial")},
}

// ClassifyCategory picks the single best-fit label for a token from its raw
// category tags. The symbol-based stablecoin override runs before any tag
// matching, catching tokens CoinGecko miscategorizes.
func ClassifyCategory(categories []string, symbol string) string {
	if analysis.IsStablecoinSymbol(symbol) {
		return analysis.CategoryStablecoin
	}

	lowered := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != "" {
			lowered = append(lowered, strings.ToLower(c))
		}
	}

	for _, rule := range categoryRules {
		for _, cat := range lowered {
			if rule.matches(cat) {
				return rule.label
			}
		}
	}
	return "Other"
}
