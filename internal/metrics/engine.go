package metrics

import (
	"math"
	"time"

	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	// Reject BTC benchmark samples farther than this from the launch date.
	btcLookupMaxDays = 30
	// Annualized ROI is only meaningful past one full year of history.
	minAgeDaysForCAGR = 365
)

// Engine derives per-token performance metrics against a Bitcoin benchmark
// series. Every derived field is a pure function of the token's raw fields,
// the series and the evaluation date, and is overwritten unconditionally on
// each pass, so recomputing is idempotent.
type Engine struct {
	classifier *cycles.Classifier
	btc        *types.PriceSeries
}

// NewEngine builds a metrics engine over the given classifier and Bitcoin
// price series. The series may be empty; BTC-relative metrics then stay absent.
func NewEngine(classifier *cycles.Classifier, btc *types.PriceSeries) *Engine {
	return &Engine{classifier: classifier, btc: btc}
}

// Compute attaches all derived fields to every token in place, evaluated as
// of evalDate.
func (e *Engine) Compute(tokens []*types.Token, evalDate time.Time) {
	today := evalDate.UTC().Truncate(24 * time.Hour)
	btcCurrent := e.btc.Last()

	for _, t := range tokens {
		launch := parseDate(t.LaunchDate)

		cycle := e.classifier.Classify(launch)
		t.CycleName = types.String(cycle.Name)
		t.CycleType = types.String(string(cycle.Type))

		t.AgeDays = ageDays(launch, today)
		t.ROISinceLaunch = roiSinceLaunch(t.LaunchPrice, t.CurrentPrice)
		t.AnnualizedROI = annualizedROI(t.ROISinceLaunch, t.AgeDays)
		t.ROIvsBTC = e.roiVsBTC(t, launch, btcCurrent)
		t.DrawdownFromATH = drawdownFromATH(t.ATH, t.CurrentPrice)
	}
}

func parseDate(iso *string) *time.Time {
	if iso == nil {
		return nil
	}
	d, err := time.ParseInLocation("2006-01-02", *iso, time.UTC)
	if err != nil {
		return nil
	}
	return &d
}

func ageDays(launch *time.Time, today time.Time) *int {
	if launch == nil {
		return nil
	}
	return types.Int(int(today.Sub(*launch).Hours() / 24))
}

// roiSinceLaunch requires a strictly positive launch price; a current price
// of zero is valid input and yields -100%.
func roiSinceLaunch(launchPrice, currentPrice *float64) *float64 {
	if launchPrice == nil || *launchPrice <= 0 || currentPrice == nil {
		return nil
	}
	return types.Float((*currentPrice - *launchPrice) / *launchPrice)
}

// annualizedROI computes CAGR, guarded to tokens older than one year. A
// non-positive growth factor floors at exactly -1.0 rather than producing an
// undefined root.
func annualizedROI(roi *float64, age *int) *float64 {
	if roi == nil || age == nil || *age <= minAgeDaysForCAGR {
		return nil
	}
	years := float64(*age) / 365.25
	growth := 1 + *roi
	if growth <= 0 {
		return types.Float(-1.0)
	}
	return types.Float(math.Pow(growth, 1/years) - 1)
}

// roiVsBTC computes the geometric excess return over Bitcoin between the
// token's launch and the series' latest sample.
func (e *Engine) roiVsBTC(t *types.Token, launch *time.Time, btcCurrent *float64) *float64 {
	if launch == nil || btcCurrent == nil || t.LaunchPrice == nil || *t.LaunchPrice <= 0 || t.CurrentPrice == nil {
		return nil
	}
	btcLaunch := e.btc.PriceNear(*launch, btcLookupMaxDays)
	if btcLaunch == nil || *btcLaunch <= 0 {
		return nil
	}
	btcROI := (*btcCurrent - *btcLaunch) / *btcLaunch
	tokenGrowth := 1.0
	if roi := roiSinceLaunch(t.LaunchPrice, t.CurrentPrice); roi != nil {
		tokenGrowth = 1 + *roi
	}
	btcGrowth := 1 + btcROI
	if btcGrowth <= 0 {
		return nil
	}
	return types.Float(tokenGrowth/btcGrowth - 1)
}

// drawdownFromATH is the current decline from the recorded peak, floored at
// zero so a price above the stale ATH never reads as negative drawdown.
func drawdownFromATH(ath, currentPrice *float64) *float64 {
	if ath == nil || *ath <= 0 || currentPrice == nil {
		return nil
	}
	return types.Float(math.Max(0, (*ath-*currentPrice)/(*ath)))
}
