package analysis

import (
	"math"
	"math/rand"
	"sort"

	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	// MinSampleSize is the per-group floor below which the two-sample test
	// returns all-absent. Rank-sum asymptotics and the bootstrap are both
	// unreliable on smaller groups. Policy constant, not a law.
	MinSampleSize = 20
	// BootstrapResamples is the resample count for the percentile CI.
	BootstrapResamples = 10_000
	// bootstrapSeed fixes the resampling RNG so repeated runs over the same
	// input produce bit-identical intervals.
	bootstrapSeed = 42
	// SignificanceLevel is the alpha used for the sensitivity and
	// robustness significance flags.
	SignificanceLevel = 0.05
)

// TestResult holds the outputs of one Bull-vs-Bear two-sample test.
type TestResult struct {
	PValue     *float64
	EffectSize *float64
	MedianDiff *float64
	CILower    *float64
	CIUpper    *float64
}

// finiteValues drops NaN and Infinity so they can never corrupt a ranking
// or a percentile.
func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// median returns nil for an empty sample, the mean of the two middle
// elements for even length. Does not modify its input.
func median(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return types.Float(sorted[n/2])
	}
	return types.Float((sorted[n/2-1] + sorted[n/2]) / 2)
}

// percentile interpolates linearly between order statistics, p in [0, 100].
// Input must already be sorted.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p / 100 * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// mannWhitneyU runs a two-sided Mann-Whitney U test using the normal
// approximation with midranks, tie-corrected variance and a 0.5 continuity
// correction. Returns the U statistic for sample a and the p-value.
func mannWhitneyU(a, b []float64) (u float64, p float64) {
	n1 := len(a)
	n2 := len(b)
	combined := make([]float64, 0, n1+n2)
	combined = append(combined, a...)
	combined = append(combined, b...)

	ranks, tieCorrection := midranks(combined)

	rankSumA := 0.0
	for i := 0; i < n1; i++ {
		rankSumA += ranks[i]
	}
	u = rankSumA - float64(n1)*float64(n1+1)/2

	fn1 := float64(n1)
	fn2 := float64(n2)
	mean := fn1 * fn2 / 2
	total := fn1 + fn2
	variance := fn1 * fn2 / 12 * (total + 1 - tieCorrection/(total*(total-1)))
	if variance <= 0 {
		// All observations tied; no evidence against the null.
		return u, 1.0
	}

	z := (math.Abs(u-mean) - 0.5) / math.Sqrt(variance)
	if z < 0 {
		z = 0
	}
	p = math.Erfc(z / math.Sqrt2) // two-sided survival of |z|
	if p > 1 {
		p = 1
	}
	return u, p
}

// midranks assigns average ranks (1-based) to the values, returning the tie
// correction term sum(t^3 - t) over tie groups.
func midranks(values []float64) (ranks []float64, tieCorrection float64) {
	n := len(values)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return values[idx[i]] < values[idx[j]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2 // ranks are 1-based
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		t := float64(j - i + 1)
		if t > 1 {
			tieCorrection += t*t*t - t
		}
		i = j + 1
	}
	return ranks, tieCorrection
}

// rankBiserial converts a U statistic into the rank-biserial correlation,
// ranging over [-1, 1] and zero under the null of equal distributions.
func rankBiserial(u float64, n1, n2 int) float64 {
	return 2*u/(float64(n1)*float64(n2)) - 1
}

// bootstrapMedianDiffCI computes a 95% percentile-bootstrap confidence
// interval for median(a) - median(b). The RNG seed is fixed so the interval
// is reproducible bit-for-bit.
func bootstrapMedianDiffCI(a, b []float64) (lower, upper *float64) {
	if len(a) < 2 || len(b) < 2 {
		return nil, nil
	}
	rng := rand.New(rand.NewSource(bootstrapSeed))
	diffs := make([]float64, BootstrapResamples)
	sampleA := make([]float64, len(a))
	sampleB := make([]float64, len(b))
	for i := 0; i < BootstrapResamples; i++ {
		for j := range sampleA {
			sampleA[j] = a[rng.Intn(len(a))]
		}
		for j := range sampleB {
			sampleB[j] = b[rng.Intn(len(b))]
		}
		diffs[i] = *median(sampleA) - *median(sampleB)
	}
	sort.Float64s(diffs)
	return types.Float(percentile(diffs, 2.5)), types.Float(percentile(diffs, 97.5))
}

// runTest is the full two-sample comparison: Mann-Whitney U, rank-biserial
// effect size, median difference and bootstrap CI. Below MinSampleSize per
// group everything stays absent.
func runTest(bullValues, bearValues []float64) TestResult {
	var result TestResult
	if len(bullValues) < MinSampleSize || len(bearValues) < MinSampleSize {
		return result
	}

	u, p := mannWhitneyU(bullValues, bearValues)
	result.PValue = types.Float(p)
	result.EffectSize = types.Float(rankBiserial(u, len(bullValues), len(bearValues)))
	result.MedianDiff = types.Float(*median(bullValues) - *median(bearValues))
	result.CILower, result.CIUpper = bootstrapMedianDiffCI(bullValues, bearValues)
	return result
}
