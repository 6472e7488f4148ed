package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA_Calculate(t *testing.T) {
	sma := NewSMA(3)
	assert.Equal(t, 3, sma.Period())

	v, err := sma.Calculate([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 4.0, v) // mean of the last three
}

func TestSMA_CalculateInsufficientData(t *testing.T) {
	sma := NewSMA(5)
	_, err := sma.Calculate([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestSMA_Series(t *testing.T) {
	series := NewSMA(3).Series([]float64{1, 2, 3, 4, 5})
	require.Len(t, series, 5)

	assert.True(t, math.IsNaN(series[0]))
	assert.True(t, math.IsNaN(series[1]))
	assert.Equal(t, 2.0, series[2])
	assert.Equal(t, 3.0, series[3])
	assert.Equal(t, 4.0, series[4])
}

func TestSMA_SeriesMatchesCalculate(t *testing.T) {
	values := []float64{10, 12, 9, 14, 11, 13, 8, 15}
	sma := NewSMA(4)
	series := sma.Series(values)

	for i := sma.Period() - 1; i < len(values); i++ {
		want, err := sma.Calculate(values[:i+1])
		require.NoError(t, err)
		assert.InDelta(t, want, series[i], 1e-9, "index %d", i)
	}
}
