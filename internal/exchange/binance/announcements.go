package binance

import (
	"regexp"
	"strings"
	"time"
)

// Listing is one token extracted from a spot listing announcement.
type Listing struct {
	Title       string `json:"title"`
	TokenName   string `json:"token_name"`
	TokenSymbol string `json:"token_symbol"` // empty when the title had no (SYMBOL)
	ListingDate string `json:"listing_date"` // ISO date
	ReleaseMs   int64  `json:"release_ms"`
	ArticleCode string `json:"article_code"`
}

// Delisting is one entry extracted from a delisting announcement. A generic
// pair-removal notice carries an empty symbol.
type Delisting struct {
	TokenSymbol string `json:"token_symbol"`
	DelistDate  string `json:"delist_date"`
	Title       string `json:"title"`
	ReleaseMs   int64  `json:"release_ms"`
}

var (
	// "Binance Will List <remainder>"
	listingRe = regexp.MustCompile(`(?i)Binance Will List\s+(.+)`)
	// "Name (SYMBOL)" — symbol is 1-10 uppercase alphanumerics in parens.
	symbolRe = regexp.MustCompile(`^(.+?)\s*\(([A-Z0-9]{1,10})\)`)
	// Multi-token titles: "TokenA (A), TokenB (B) and TokenC (C)".
	multiTokenRe = regexp.MustCompile(`([^,&]+?\s*\([A-Z0-9]{1,10}\))`)
	// Early-era format: "OMG Market".
	earlyRe = regexp.MustCompile(`^(\w+)\s+Market$`)

	// Announcements that are not new spot token listings.
	excludePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Futures`),
		regexp.MustCompile(`(?i)Margin`),
		regexp.MustCompile(`(?i)Trading Pairs`),
		regexp.MustCompile(`(?i)Trading Bots`),
		regexp.MustCompile(`(?i)Buy Crypto|Convert|Earn`),
		regexp.MustCompile(`(?i)Pre-Market`),
		regexp.MustCompile(`(?i)Leveraged Tokens`),
	}

	// Title suffixes that trail the token list.
	suffixCleaners = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+with\s+Seed\s+Tag.*`),
		regexp.MustCompile(`(?i)\s+on\s+Binance.*`),
		regexp.MustCompile(`(?i)\s+and\s+Opens?\s+Deposit.*`),
		regexp.MustCompile(`(?i)\s+and\s+Introduce\s+.*`),
	}

	// "Binance Will Delist SYM1, SYM2 on 2024-..."
	delistTokensRe  = regexp.MustCompile(`(?i)Binance Will Delist\s+(.+?)\s+on\s+\d{4}`)
	delistSplitRe   = regexp.MustCompile(`[,&]|\band\b`)
	delistSymbolRe  = regexp.MustCompile(`(?:.*\()?(\w+)\)?$`)
	futuresMarginRe = regexp.MustCompile(`(?i)Futures|Margin|Perpetual`)
	spotRe          = regexp.MustCompile(`(?i)Spot`)
)

func releaseDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

// ParseListings extracts individual token listings from announcement titles,
// de-duplicating by symbol (first announcement wins — the feed is newest
// first, and re-listings are rare enough to ignore).
func ParseListings(articles []Article) []Listing {
	listings := make([]Listing, 0, len(articles))
	seen := make(map[string]struct{})

	add := func(l Listing) {
		key := l.TokenSymbol
		if key == "" {
			key = strings.ToUpper(l.TokenName)
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		listings = append(listings, l)
	}

	for _, art := range articles {
		title := art.Title
		if matchesAny(excludePatterns, title) {
			continue
		}
		listingDate := releaseDate(art.ReleaseDate)

		m := listingRe.FindStringSubmatch(title)
		if m == nil {
			if em := earlyRe.FindStringSubmatch(strings.TrimSpace(title)); em != nil {
				sym := strings.ToUpper(em[1])
				add(Listing{
					Title:       title,
					TokenName:   sym,
					TokenSymbol: sym,
					ListingDate: listingDate,
					ReleaseMs:   art.ReleaseDate,
					ArticleCode: art.Code,
				})
			}
			continue
		}

		remainder := strings.TrimSpace(m[1])
		for _, cleaner := range suffixCleaners {
			remainder = cleaner.ReplaceAllString(remainder, "")
		}
		remainder = strings.TrimSpace(remainder)

		if multi := multiTokenRe.FindAllString(remainder, -1); multi != nil {
			for _, chunk := range multi {
				chunk = strings.TrimSpace(chunk)
				chunk = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(chunk, ","), "and"))
				if sm := symbolRe.FindStringSubmatch(chunk); sm != nil {
					add(Listing{
						Title:       title,
						TokenName:   strings.TrimSpace(sm[1]),
						TokenSymbol: strings.ToUpper(sm[2]),
						ListingDate: listingDate,
						ReleaseMs:   art.ReleaseDate,
						ArticleCode: art.Code,
					})
				}
			}
			continue
		}

		name := remainder
		symbol := ""
		if sm := symbolRe.FindStringSubmatch(remainder); sm != nil {
			name = strings.TrimSpace(sm[1])
			symbol = strings.ToUpper(sm[2])
		}
		add(Listing{
			Title:       title,
			TokenName:   name,
			TokenSymbol: symbol,
			ListingDate: listingDate,
			ReleaseMs:   art.ReleaseDate,
			ArticleCode: art.Code,
		})
	}
	return listings
}

// ParseDelistings extracts per-token delistings where the title names the
// symbols; futures/margin-only notices are skipped unless they also touch
// spot, and notices without explicit symbols are kept as generic entries.
func ParseDelistings(articles []Article) []Delisting {
	delistings := make([]Delisting, 0, len(articles))
	for _, art := range articles {
		title := art.Title
		delistDate := releaseDate(art.ReleaseDate)

		if futuresMarginRe.MatchString(title) && !spotRe.MatchString(title) {
			continue
		}

		m := delistTokensRe.FindStringSubmatch(title)
		if m == nil {
			delistings = append(delistings, Delisting{
				DelistDate: delistDate,
				Title:      title,
				ReleaseMs:  art.ReleaseDate,
			})
			continue
		}

		for _, part := range delistSplitRe.Split(m[1], -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if sm := delistSymbolRe.FindStringSubmatch(part); sm != nil {
				delistings = append(delistings, Delisting{
					TokenSymbol: strings.ToUpper(sm[1]),
					DelistDate:  delistDate,
					Title:       title,
					ReleaseMs:   art.ReleaseDate,
				})
			}
		}
	}
	return delistings
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
