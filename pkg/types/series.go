package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// PricePoint is one (timestamp, price) sample. On the wire it is the
// CoinGecko market-chart pair [timestamp_ms, price].
type PricePoint struct {
	TimestampMs int64
	Price       float64
}

// Date returns the UTC calendar date of the sample.
func (p PricePoint) Date() time.Time {
	return time.UnixMilli(p.TimestampMs).UTC().Truncate(24 * time.Hour)
}

func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.TimestampMs), p.Price})
}

func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("price point must be a [timestamp_ms, price] pair: %w", err)
	}
	p.TimestampMs = int64(pair[0])
	p.Price = pair[1]
	return nil
}

// PriceSeries is an ordered sequence of price samples, typically the full
// Bitcoin history used as the performance benchmark.
type PriceSeries struct {
	Prices []PricePoint `json:"prices"`
}

// Empty reports whether the series has no samples.
func (s *PriceSeries) Empty() bool {
	return s == nil || len(s.Prices) == 0
}

// Last returns the most recent sample's price, or nil for an empty series.
func (s *PriceSeries) Last() *float64 {
	if s.Empty() {
		return nil
	}
	return Float(s.Prices[len(s.Prices)-1].Price)
}

// PriceNear finds the sample whose calendar date is closest to target.
// Returns nil when the closest sample is more than maxDays away, so callers
// never benchmark against a stale or far-future price.
func (s *PriceSeries) PriceNear(target time.Time, maxDays int) *float64 {
	if s.Empty() {
		return nil
	}
	target = target.UTC().Truncate(24 * time.Hour)
	var best *float64
	bestDiff := math.MaxFloat64
	for _, p := range s.Prices {
		diff := math.Abs(p.Date().Sub(target).Hours() / 24)
		if diff < bestDiff {
			bestDiff = diff
			best = Float(p.Price)
		}
		if diff == 0 {
			break
		}
	}
	if bestDiff > float64(maxDays) {
		return nil
	}
	return best
}

// Daily collapses the series to one price per UTC calendar day (the last
// sample of each day wins) and returns the days in ascending order.
func (s *PriceSeries) Daily() ([]time.Time, map[time.Time]float64) {
	daily := make(map[time.Time]float64)
	for _, p := range s.Prices {
		daily[p.Date()] = p.Price
	}
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, daily
}

// Downsample keeps every nth sample, used for the lightweight chart export.
func (s *PriceSeries) Downsample(n int) []PricePoint {
	if n <= 1 || s.Empty() {
		if s == nil {
			return nil
		}
		return s.Prices
	}
	out := make([]PricePoint, 0, len(s.Prices)/n+1)
	for i := 0; i < len(s.Prices); i += n {
		out = append(out, s.Prices[i])
	}
	return out
}
