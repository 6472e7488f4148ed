package collector

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cyclelab/token-cycles/internal/exchange/binance"
	"github.com/cyclelab/token-cycles/internal/exchange/coingecko"
	"github.com/cyclelab/token-cycles/internal/monitoring"
	"github.com/cyclelab/token-cycles/pkg/types"
)

// launchPriceMaxDays rejects launch prices whose nearest chart sample is
// farther than a week from the launch date.
const launchPriceMaxDays = 7

// Launch source tags recorded on collected tokens.
const (
	SourceBinanceListing   = "binance_listing"
	SourceCoinGeckoGenesis = "coingecko_genesis"
	SourceFirstPrice       = "first_price"
)

// cgOverrides pins CoinGecko IDs for symbols with known collisions.
var cgOverrides = map[string]string{
	"BTCB":  "bitcoin-bep2",
	"LUNA":  "terra-luna-2",
	"WBTC":  "wrapped-bitcoin",
	"WETH":  "weth",
	"STETH": "staked-ether",
	"WBETH": "wrapped-beacon-eth",
	"RETH":  "rocket-pool-eth",
	"CBETH": "coinbase-wrapped-staked-eth",
}

var thousandPrefixRe = regexp.MustCompile(`^1000`)

// NormalizeSymbol strips leveraged-denomination prefixes so Binance and
// CoinGecko symbols compare equal (e.g. 1000CHEEMS -> CHEEMS).
func NormalizeSymbol(symbol string) string {
	return thousandPrefixRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(symbol)), "")
}

// MarketsIndex is the symbol->ID mapping plus per-ID market snapshots built
// from the CoinGecko markets listing. It replaces what used to be implicit
// shared state: build one per collection run and pass it where needed.
type MarketsIndex struct {
	SymbolToID map[string]string
	Markets    map[string]coingecko.Market
}

// BuildMarketsIndex walks the top market pages, preferring the higher-cap
// coin when two share a symbol, then applies the manual overrides.
func BuildMarketsIndex(ctx context.Context, cg *coingecko.Client, pages int) (*MarketsIndex, error) {
	idx := &MarketsIndex{
		SymbolToID: make(map[string]string),
		Markets:    make(map[string]coingecko.Market),
	}
	for page := 1; page <= pages; page++ {
		markets, err := cg.GetMarketsPage(ctx, page)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("markets page fetch failed, stopping mapping build")
			break
		}
		for _, m := range markets {
			sym := strings.ToUpper(m.Symbol)
			if sym == "" || m.ID == "" {
				continue
			}
			if _, exists := idx.SymbolToID[sym]; !exists {
				idx.SymbolToID[sym] = m.ID
			}
			idx.Markets[m.ID] = m
		}
	}
	for sym, id := range cgOverrides {
		idx.SymbolToID[sym] = id
	}
	log.Info().Int("symbols", len(idx.SymbolToID)).Msg("built coingecko symbol mapping")
	return idx, nil
}

// BuildDelistMap reduces delisting entries to a symbol -> earliest delist
// date map.
func BuildDelistMap(delistings []binance.Delisting) map[string]string {
	dmap := make(map[string]string)
	for _, d := range delistings {
		if d.TokenSymbol == "" {
			continue
		}
		norm := NormalizeSymbol(d.TokenSymbol)
		if prev, ok := dmap[norm]; !ok || d.DelistDate < prev {
			dmap[norm] = d.DelistDate
		}
	}
	return dmap
}

// Collector assembles the analysis dataset: every token ever listed on
// Binance spot (including the later-delisted failures a top-N snapshot would
// miss), enriched with CoinGecko market and history data.
type Collector struct {
	binance *binance.Client
	cg      *coingecko.Client

	// MappingPages is how many 250-coin market pages feed the symbol map.
	MappingPages int
}

// New creates a collector over the two fetchers.
func New(binanceClient *binance.Client, cgClient *coingecko.Client) *Collector {
	return &Collector{binance: binanceClient, cg: cgClient, MappingPages: 10}
}

// Collect runs the full collection. limit > 0 restricts the listing count
// for test runs. Returns the tokens and the raw Bitcoin price series.
func (c *Collector) Collect(ctx context.Context, limit int) ([]*types.Token, *types.PriceSeries, error) {
	listings, err := c.binance.GetListings(ctx)
	if err != nil {
		return nil, nil, err
	}
	delistings, err := c.binance.GetDelistings(ctx)
	if err != nil {
		return nil, nil, err
	}
	delistMap := BuildDelistMap(delistings)
	log.Info().Int("listings", len(listings)).Int("delisted", len(delistMap)).Msg("binance history fetched")

	// Only listings with parsed symbols can be matched to market data.
	withSymbols := listings[:0]
	for _, l := range listings {
		if l.TokenSymbol != "" {
			withSymbols = append(withSymbols, l)
		}
	}
	listings = withSymbols
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}

	btcChart, err := c.cg.GetMarketChart(ctx, "bitcoin")
	if err != nil {
		return nil, nil, err
	}

	idx, err := BuildMarketsIndex(ctx, c.cg, c.MappingPages)
	if err != nil {
		return nil, nil, err
	}

	tokens := make([]*types.Token, 0, len(listings))
	for i, listing := range listings {
		token := c.enrich(ctx, listing, idx, delistMap)
		tokens = append(tokens, token)
		if (i+1)%50 == 0 {
			log.Info().Int("done", i+1).Int("total", len(listings)).Msg("enriching tokens")
		}
	}

	monitoring.SetTokensCollected(len(tokens))
	return tokens, btcChart, nil
}

// CollectTopN builds the dataset from the current top-n CoinGecko tokens
// instead of the Binance listing history. Fallback mode for when the CMS
// endpoint is unreachable: no listing dates and no delist status, so launch
// info comes entirely from CoinGecko.
func (c *Collector) CollectTopN(ctx context.Context, n int) ([]*types.Token, *types.PriceSeries, error) {
	markets, err := c.cg.GetTopTokens(ctx, n)
	if err != nil {
		return nil, nil, err
	}
	btcChart, err := c.cg.GetMarketChart(ctx, "bitcoin")
	if err != nil {
		return nil, nil, err
	}

	tokens := make([]*types.Token, 0, len(markets))
	for i, m := range markets {
		tokens = append(tokens, c.enrichMarket(ctx, m))
		if (i+1)%50 == 0 {
			log.Info().Int("done", i+1).Int("total", len(markets)).Msg("enriching tokens")
		}
	}

	monitoring.SetTokensCollected(len(tokens))
	return tokens, btcChart, nil
}

// enrichMarket builds one token record from a market snapshot alone. The
// launch date falls back to the first chart sample when CoinGecko records no
// genesis date.
func (c *Collector) enrichMarket(ctx context.Context, m coingecko.Market) *types.Token {
	token := &types.Token{
		ID:            m.ID,
		Symbol:        strings.ToLower(m.Symbol),
		Name:          m.Name,
		CurrentPrice:  m.CurrentPrice,
		MarketCap:     m.MarketCap,
		MarketCapRank: m.MarketCapRank,
		ATH:           m.ATH,
		ATL:           m.ATL,
		Image:         m.Image,
		Categories:    []string{},
	}

	if detail, err := c.cg.GetTokenDetail(ctx, m.ID); err != nil {
		log.Warn().Err(err).Str("id", m.ID).Msg("detail fetch failed")
		monitoring.RecordError("detail_fetch")
	} else {
		if detail.Categories != nil {
			token.Categories = detail.Categories
		}
		if detail.GenesisDate != nil {
			token.LaunchDate = detail.GenesisDate
			token.LaunchSource = types.String(SourceCoinGeckoGenesis)
		}
	}

	if chart, err := c.cg.GetMarketChart(ctx, m.ID); err != nil {
		log.Warn().Err(err).Str("id", m.ID).Msg("chart fetch failed")
		monitoring.RecordError("chart_fetch")
	} else if token.LaunchDate != nil {
		if launch, err := time.Parse("2006-01-02", *token.LaunchDate); err == nil {
			token.LaunchPrice = chart.PriceNear(launch, launchPriceMaxDays)
		}
	} else if !chart.Empty() {
		first := chart.Prices[0]
		token.LaunchDate = types.String(first.Date().Format("2006-01-02"))
		token.LaunchSource = types.String(SourceFirstPrice)
		token.LaunchPrice = types.Float(first.Price)
	}

	token.Category = types.String(ClassifyCategory(token.Categories, m.Symbol))
	return token
}

// enrich builds one token record from its Binance listing plus whatever
// CoinGecko knows about it. Enrichment failures degrade to absent fields,
// never abort the run.
func (c *Collector) enrich(ctx context.Context, listing binance.Listing, idx *MarketsIndex, delistMap map[string]string) *types.Token {
	norm := NormalizeSymbol(listing.TokenSymbol)
	delistDate, isDelisted := delistMap[norm]

	token := &types.Token{
		ID:              "binance-" + strings.ToLower(norm),
		Symbol:          strings.ToLower(listing.TokenSymbol),
		Name:            listing.TokenName,
		LaunchDate:      types.String(listing.ListingDate),
		LaunchSource:    types.String(SourceBinanceListing),
		Categories:      []string{},
		BinanceListed:   true,
		BinanceDelisted: isDelisted,
	}
	if isDelisted {
		token.BinanceDelistDate = types.String(delistDate)
	}

	cgID, ok := idx.SymbolToID[norm]
	if !ok {
		cgID, ok = idx.SymbolToID[strings.ToUpper(listing.TokenSymbol)]
	}
	if !ok {
		log.Debug().Str("symbol", listing.TokenSymbol).Msg("no coingecko match")
		token.Category = types.String(ClassifyCategory(nil, listing.TokenSymbol))
		return token
	}
	token.ID = cgID

	if detail, err := c.cg.GetTokenDetail(ctx, cgID); err != nil {
		log.Warn().Err(err).Str("id", cgID).Msg("detail fetch failed")
		monitoring.RecordError("detail_fetch")
	} else {
		if detail.Categories != nil {
			token.Categories = detail.Categories
		}
		// An earlier genesis date supersedes the listing date as launch.
		if detail.GenesisDate != nil {
			if genesis, err := time.Parse("2006-01-02", *detail.GenesisDate); err == nil {
				if listed, err := time.Parse("2006-01-02", listing.ListingDate); err == nil && genesis.Before(listed) {
					token.LaunchDate = detail.GenesisDate
					token.LaunchSource = types.String(SourceCoinGeckoGenesis)
				}
			}
		}
	}

	if chart, err := c.cg.GetMarketChart(ctx, cgID); err != nil {
		log.Warn().Err(err).Str("id", cgID).Msg("chart fetch failed")
		monitoring.RecordError("chart_fetch")
	} else if token.LaunchDate != nil {
		if launch, err := time.Parse("2006-01-02", *token.LaunchDate); err == nil {
			token.LaunchPrice = chart.PriceNear(launch, launchPriceMaxDays)
		}
	}

	if market, ok := idx.Markets[cgID]; ok {
		token.CurrentPrice = market.CurrentPrice
		token.MarketCap = market.MarketCap
		token.MarketCapRank = market.MarketCapRank
		token.ATH = market.ATH
		token.ATL = market.ATL
		token.Image = market.Image
	}

	token.Category = types.String(ClassifyCategory(token.Categories, listing.TokenSymbol))
	return token
}
