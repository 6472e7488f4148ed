package types

// Token is one tracked asset: the raw fields written by the collector plus
// the derived fields attached by the metrics engine. Nil means absent —
// across the whole pipeline a missing value is encoded as a nil pointer,
// never as zero.
type Token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     *float64 `json:"market_cap"`
	MarketCapRank *int     `json:"market_cap_rank"`
	ATH           *float64 `json:"ath"`
	ATL           *float64 `json:"atl"`
	Image         *string  `json:"image"`

	// Launch info
	LaunchDate      *string  `json:"launch_date"` // ISO date (YYYY-MM-DD)
	LaunchPrice     *float64 `json:"launch_price"`
	LaunchMarketCap *float64 `json:"launch_market_cap"`
	TotalSupply     *float64 `json:"total_supply"`
	LaunchSource    *string  `json:"launch_source"` // "coingecko_genesis", "binance_listing" or "first_price"

	// Category
	Category   *string  `json:"category"`
	Categories []string `json:"categories"`

	// Binance listing status
	BinanceListed     bool    `json:"binance_listed"`
	BinanceDelisted   bool    `json:"binance_delisted"`
	BinanceDelistDate *string `json:"binance_delist_date"`

	// Derived fields, overwritten on every metrics pass. Never treated as
	// authoritative input.
	CycleName       *string  `json:"cycle_name"`
	CycleType       *string  `json:"cycle_type"`
	AgeDays         *int     `json:"age_days"`
	ROISinceLaunch  *float64 `json:"roi_since_launch"`
	AnnualizedROI   *float64 `json:"annualized_roi"`
	ROIvsBTC        *float64 `json:"roi_vs_btc"`
	DrawdownFromATH *float64 `json:"drawdown_from_ath"`
}

// PerformerDigest is the compact per-token entry used in the best/worst
// performer lists of SummaryStats.
type PerformerDigest struct {
	ID              string   `json:"id"`
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name"`
	CycleType       *string  `json:"cycle_type"`
	CycleName       *string  `json:"cycle_name"`
	AnnualizedROI   *float64 `json:"annualized_roi"`
	ROISinceLaunch  *float64 `json:"roi_since_launch"`
	ROIvsBTC        *float64 `json:"roi_vs_btc"`
	MarketCapRank   *int     `json:"market_cap_rank"`
	BinanceDelisted bool     `json:"binance_delisted"`
}

// SummaryStats is the aggregate snapshot produced by one analysis run.
// Constructed fresh each run, never mutated afterwards.
type SummaryStats struct {
	TotalTokens          int            `json:"total_tokens"`
	TokensWithLaunchDate int            `json:"tokens_with_launch_date"`
	TokensByCycleType    map[string]int `json:"tokens_by_cycle_type"`

	MedianROIByCycleType           map[string]*float64 `json:"median_roi_by_cycle_type"`
	MedianAnnualizedROIByCycleType map[string]*float64 `json:"median_annualized_roi_by_cycle_type"`
	MedianROIvsBTCByCycleType      map[string]*float64 `json:"median_roi_vs_btc_by_cycle_type"`
	FractionTop100ByCycleType      map[string]*float64 `json:"fraction_currently_top100_by_cycle_type"`
	MedianDrawdownByCycleType      map[string]*float64 `json:"median_drawdown_by_cycle_type"`
	DelistRateByCycleType          map[string]*float64 `json:"delist_rate_by_cycle_type"`

	BestPerformers  []PerformerDigest `json:"best_performers"`
	WorstPerformers []PerformerDigest `json:"worst_performers"`

	// Bull vs Bear Mann-Whitney test on annualized ROI
	BullVsBearPValue     *float64 `json:"bull_vs_bear_mannwhitney_pvalue"`
	BullVsBearEffectSize *float64 `json:"bull_vs_bear_effect_size"`
	BullVsBearMedianDiff *float64 `json:"bull_vs_bear_median_diff"`
	BullVsBearCILower    *float64 `json:"bull_vs_bear_ci_lower"`
	BullVsBearCIUpper    *float64 `json:"bull_vs_bear_ci_upper"`
	BullN                *int     `json:"bull_n"`
	BearN                *int     `json:"bear_n"`

	// Same test on BTC-relative ROI
	BTCRelPValue     *float64 `json:"btc_rel_mannwhitney_pvalue"`
	BTCRelEffectSize *float64 `json:"btc_rel_effect_size"`
	BTCRelMedianDiff *float64 `json:"btc_rel_median_diff"`
	BTCRelCILower    *float64 `json:"btc_rel_ci_lower"`
	BTCRelCIUpper    *float64 `json:"btc_rel_ci_upper"`

	// Transparency counts
	TokensExcludedStablecoin int `json:"tokens_excluded_stablecoin"`
	TokensExcludedWrapped    int `json:"tokens_excluded_wrapped"`
	TokensImputedDead        int `json:"tokens_imputed_dead"`
}

// SensitivityResult is one entry of the cycle-boundary-shift study.
type SensitivityResult struct {
	ShiftMonths int      `json:"shift_months"`
	PValue      *float64 `json:"pvalue"`
	EffectSize  *float64 `json:"effect_size"`
	BullN       int      `json:"bull_n"`
	BearN       int      `json:"bear_n"`
	Significant bool     `json:"significant"`
}

// RobustnessResult is one entry of the moving-average regime study.
type RobustnessResult struct {
	Window      int      `json:"window"`
	PValue      *float64 `json:"pvalue"`
	EffectSize  *float64 `json:"effect_size"`
	BullN       int      `json:"bull_n"`
	BearN       int      `json:"bear_n"`
	Significant bool     `json:"significant"`
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
