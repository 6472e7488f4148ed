package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/cyclelab/token-cycles/internal/monitoring"
	"github.com/cyclelab/token-cycles/internal/safety"
	"github.com/cyclelab/token-cycles/pkg/data"
	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	marketsPerPage = 250
	sourceLabel    = "coingecko"
)

// Market is one row of the /coins/markets response.
type Market struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     *float64 `json:"market_cap"`
	MarketCapRank *int     `json:"market_cap_rank"`
	ATH           *float64 `json:"ath"`
	ATL           *float64 `json:"atl"`
	Image         *string  `json:"image"`
}

// Detail is the subset of /coins/{id} the collector needs.
type Detail struct {
	ID          string   `json:"id"`
	GenesisDate *string  `json:"genesis_date"`
	Categories  []string `json:"categories"`
}

// Config selects API tier and pacing for the client.
type Config struct {
	APIKey    string
	ProBase   string
	FreeBase  string
	ProDelay  time.Duration
	FreeDelay time.Duration
}

// Client is a CoinGecko REST client with file caching and rate limiting.
// Every response is cached by endpoint key, so a warm cache makes repeated
// runs fully deterministic and network-free.
type Client struct {
	http    *retryablehttp.Client
	cache   *data.FileCache
	limiter *safety.RateLimiter
	baseURL string
	apiKey  string
}

// NewClient builds a client for the pro tier when an API key is configured,
// otherwise the free tier with conservative pacing.
func NewClient(cfg Config, cache *data.FileCache) *Client {
	baseURL := cfg.FreeBase
	delay := cfg.FreeDelay
	tier := "free"
	if cfg.APIKey != "" {
		baseURL = cfg.ProBase
		delay = cfg.ProDelay
		tier = "pro"
	}
	log.Info().Str("tier", tier).Str("base", baseURL).Msg("coingecko client ready")

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 5
	httpClient.RetryWaitMin = 5 * time.Second
	httpClient.RetryWaitMax = 30 * time.Second
	httpClient.HTTPClient.Timeout = 30 * time.Second
	httpClient.Logger = nil

	return &Client{
		http:    httpClient,
		cache:   cache,
		limiter: safety.NewRateLimiter(sourceLabel, delay),
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
	}
}

// request fetches endpoint with params, answering from cache when possible.
func (c *Client) request(ctx context.Context, endpoint string, params url.Values, cacheKey string, out any) error {
	if cacheKey == "" {
		cacheKey = endpoint
	}
	hit, err := c.cache.Get(cacheKey, out)
	if err != nil {
		return err
	}
	if hit {
		monitoring.RecordCacheHit(sourceLabel)
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	monitoring.RecordAPIRequest(sourceLabel)
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.RecordError("coingecko_request")
		return fmt.Errorf("coingecko request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.RecordError("coingecko_status")
		return fmt.Errorf("coingecko request %s returned %d", endpoint, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("coingecko response %s is not valid JSON: %w", endpoint, err)
	}
	// Cache the raw payload so the cached and fresh paths decode identically.
	return c.cache.Set(cacheKey, json.RawMessage(raw))
}

// GetMarketsPage fetches one page of markets ordered by market cap.
func (c *Client) GetMarketsPage(ctx context.Context, page int) ([]Market, error) {
	params := url.Values{
		"vs_currency": {"usd"},
		"order":       {"market_cap_desc"},
		"per_page":    {fmt.Sprint(marketsPerPage)},
		"page":        {fmt.Sprint(page)},
		"sparkline":   {"false"},
	}
	var markets []Market
	err := c.request(ctx, "/coins/markets", params, fmt.Sprintf("markets_page_%d", page), &markets)
	return markets, err
}

// GetTopTokens fetches the top n tokens by market cap.
func (c *Client) GetTopTokens(ctx context.Context, n int) ([]Market, error) {
	pages := (n + marketsPerPage - 1) / marketsPerPage
	all := make([]Market, 0, n)
	for page := 1; page <= pages; page++ {
		markets, err := c.GetMarketsPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, markets...)
	}
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// GetTokenDetail fetches genesis date and categories for one coin.
func (c *Client) GetTokenDetail(ctx context.Context, coinID string) (*Detail, error) {
	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}
	var detail Detail
	err := c.request(ctx, "/coins/"+coinID, params, "detail_"+coinID, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetMarketChart fetches the full price history of one coin.
func (c *Client) GetMarketChart(ctx context.Context, coinID string) (*types.PriceSeries, error) {
	params := url.Values{
		"vs_currency": {"usd"},
		"days":        {"max"},
	}
	var series types.PriceSeries
	err := c.request(ctx, "/coins/"+coinID+"/market_chart", params, "chart_"+coinID, &series)
	if err != nil {
		return nil, err
	}
	return &series, nil
}
