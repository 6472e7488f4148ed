package indicators

import (
	"errors"
	"math"
)

// SMA is a trailing simple moving average over a price series.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator with the given window.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Period returns the indicator window length.
func (s *SMA) Period() int {
	return s.period
}

// Calculate returns the average of the last period values.
func (s *SMA) Calculate(values []float64) (float64, error) {
	if len(values) < s.period {
		return 0, errors.New("insufficient data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - s.period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(s.period), nil
}

// Series returns the trailing SMA at every index of values. Indices with
// fewer than period samples behind them hold NaN.
func (s *SMA) Series(values []float64) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= s.period {
			sum -= values[i-s.period]
		}
		if i >= s.period-1 {
			out[i] = sum / float64(s.period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
