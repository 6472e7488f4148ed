package binance

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
)

const (
	// ListingCatalog is the CMS catalog for new crypto listings.
	ListingCatalog = 48
	// DelistingCatalog is the CMS catalog for delisting notices.
	DelistingCatalog = 161

	sourceLabel = "binance"
)

// Article is one CMS announcement.
type Article struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	ReleaseDate int64  `json:"releaseDate"` // ms
}

type catalogPage struct {
	Data struct {
		Catalogs []struct {
			Total    int       `json:"total"`
			Articles []Article `json:"articles"`
		} `json:"catalogs"`
	} `json:"data"`
}

// Config holds the CMS endpoint and pacing.
type Config struct {
	CMSBase      string
	RequestDelay time.Duration
	PageSize     int
}

// Client fetches Binance listing/delisting announcements from the public
// CMS API, paging through catalogs with conservative pacing (the endpoint
// sits behind a WAF) and caching every page.
type Client struct {
	http     *retryablehttp.Client
	cache    *data.FileCache
	limiter  *safety.RateLimiter
	cmsBase  string
	pageSize int
}

// NewClient builds an announcements client.
func NewClient(cfg Config, cache *data.FileCache) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 5
	httpClient.RetryWaitMin = 5 * time.Second
	httpClient.RetryWaitMax = 30 * time.Second
	httpClient.HTTPClient.Timeout = 30 * time.Second
	httpClient.Logger = nil

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	return &Client{
		http:     httpClient,
		cache:    cache,
		limiter:  safety.NewRateLimiter(sourceLabel, cfg.RequestDelay),
		cmsBase:  cfg.CMSBase,
		pageSize: pageSize,
	}
}

func (c *Client) fetchPage(ctx context.Context, catalogID, page int) (*catalogPage, error) {
	cacheKey := fmt.Sprintf("catalog_%d_page_%d", catalogID, page)
	var result catalogPage
	hit, err := c.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if hit {
		monitoring.RecordCacheHit(sourceLabel)
		return &result, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"type":      {"1"},
		"catalogId": {fmt.Sprint(catalogID)},
		"pageNo":    {fmt.Sprint(page)},
		"pageSize":  {fmt.Sprint(c.pageSize)},
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.cmsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	monitoring.RecordAPIRequest(sourceLabel)
	resp, err := c.http.Do(req)
	if err != nil {
		monitoring.RecordError("binance_request")
		return nil, fmt.Errorf("binance CMS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		monitoring.RecordError("binance_status")
		return nil, fmt.Errorf("binance CMS returned %d for catalog %d page %d", resp.StatusCode, catalogID, page)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("binance CMS response is not valid JSON: %w", err)
	}
	if err := c.cache.Set(cacheKey, json.RawMessage(raw)); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchAllAnnouncements pages through a whole catalog.
func (c *Client) FetchAllAnnouncements(ctx context.Context, catalogID int) ([]Article, error) {
	first, err := c.fetchPage(ctx, catalogID, 1)
	if err != nil {
		return nil, err
	}
	if len(first.Data.Catalogs) == 0 {
		return nil, nil
	}

	catalog := first.Data.Catalogs[0]
	total := catalog.Total
	articles := catalog.Articles
	totalPages := (total + c.pageSize - 1) / c.pageSize
	log.Info().Int("catalog", catalogID).Int("total", total).Int("pages", totalPages).Msg("fetching announcements")

	for page := 2; page <= totalPages; page++ {
		next, err := c.fetchPage(ctx, catalogID, page)
		if err != nil {
			return nil, err
		}
		if len(next.Data.Catalogs) > 0 {
			articles = append(articles, next.Data.Catalogs[0].Articles...)
		}
	}
	return articles, nil
}

// GetListings fetches and parses all spot listing announcements.
func (c *Client) GetListings(ctx context.Context) ([]Listing, error) {
	articles, err := c.FetchAllAnnouncements(ctx, ListingCatalog)
	if err != nil {
		return nil, err
	}
	return ParseListings(articles), nil
}

// GetDelistings fetches and parses all delisting announcements.
func (c *Client) GetDelistings(ctx context.Context) ([]Delisting, error) {
	articles, err := c.FetchAllAnnouncements(ctx, DelistingCatalog)
	if err != nil {
		return nil, err
	}
	return ParseDelistings(articles), nil
}
