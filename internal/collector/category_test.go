package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		name       string
		categories []string
		symbol     string
		want       string
	}{
		{"stablecoin tag", []string{"Stablecoins"}, "xyz", "Stablecoin"},
		{"stablecoin issuer is not a stablecoin", []string{"Stablecoin Issuer"}, "mkr", "Other"},
		{"symbol override beats tags", []string{"DeFi"}, "USDT", "Stablecoin"},
		{"wrapped", []string{"Wrapped-Tokens"}, "wbtc", "Wrapped"},
		{"liquid staking", []string{"Liquid Staking Tokens"}, "steth", "Wrapped"},
		{"meme beats layer 1", []string{"Meme", "Layer 1 (L1)"}, "doge", "Meme"},
		{"layer 1", []string{"Smart Contract Platform"}, "eth", "L1"},
		{"layer 2", []string{"Layer 2 (L2)"}, "arb", "L2"},
		{"rollup", []string{"Optimistic Rollup"}, "op", "L2"},
		{"defi", []string{"Decentralized Finance (DeFi)"}, "uni", "DeFi"},
		{"lending", []string{"Lending/Borrowing Protocols"}, "aave", "DeFi"},
		{"exchange", []string{"Centralized Exchange (CEX)"}, "bnb", "Exchange"},
		{"oracle", []string{"Oracle"}, "link", "Infrastructure"},
		{"gaming", []string{"Gaming (GameFi)"}, "axs", "Gaming/NFT"},
		{"storage", []string{"Storage"}, "fil", "AI/Storage"},
		{"no tags", nil, "abc", "Other"},
		{"empty tags ignored", []string{"", ""}, "abc", "Other"},
		{"unknown tags", []string{"Ecosystem"}, "abc", "Other"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyCategory(tc.categories, tc.symbol))
		})
	}
}

func TestClassifyCategory_PriorityOrder(t *testing.T) {
	// A wrapped liquid-staking token tagged DeFi must resolve as Wrapped:
	// structural labels outrank sector labels.
	got := ClassifyCategory([]string{"DeFi", "Liquid Staking Tokens"}, "xyz")
	assert.Equal(t, "Wrapped", got)
}
