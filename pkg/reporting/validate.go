package reporting

import (
	"fmt"
	"time"

	"github.com/cyclelab/token-cycles/pkg/types"
)

// FieldError names one offending field of a token that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var knownCycleTypes = map[string]struct{}{
	"Early": {}, "Bull": {}, "Bear": {}, "Neutral": {}, "Unknown": {},
}

// ValidateToken checks a token's shape at the export boundary: required
// identity fields, parseable ISO dates and value ranges. It returns every
// violation rather than stopping at the first, so the log names all
// offending fields at once.
func ValidateToken(t *types.Token) []FieldError {
	var errs []FieldError

	if t.ID == "" {
		errs = append(errs, FieldError{"id", "must not be empty"})
	}
	if t.Symbol == "" {
		errs = append(errs, FieldError{"symbol", "must not be empty"})
	}
	if t.Name == "" {
		errs = append(errs, FieldError{"name", "must not be empty"})
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"launch_date", t.LaunchDate},
		{"binance_delist_date", t.BinanceDelistDate},
	} {
		if f.value == nil {
			continue
		}
		if _, err := time.Parse("2006-01-02", *f.value); err != nil {
			errs = append(errs, FieldError{f.name, "not an ISO calendar date"})
		}
	}

	if t.MarketCapRank != nil && *t.MarketCapRank < 1 {
		errs = append(errs, FieldError{"market_cap_rank", "must be positive"})
	}
	if t.DrawdownFromATH != nil && (*t.DrawdownFromATH < 0 || *t.DrawdownFromATH > 1) {
		errs = append(errs, FieldError{"drawdown_from_ath", "outside [0, 1]"})
	}
	if t.CycleType != nil {
		if _, ok := knownCycleTypes[*t.CycleType]; !ok {
			errs = append(errs, FieldError{"cycle_type", "not a known cycle type"})
		}
	}

	return errs
}
