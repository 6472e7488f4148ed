package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/pkg/types"
)

// Output file names under the website data directory.
const (
	TokensJSON      = "tokens.json"
	SummaryJSON     = "summary_stats.json"
	CyclesJSON      = "market_cycles.json"
	SensitivityJSON = "sensitivity.json"
	RobustnessJSON  = "ma_robustness.json"
	BTCHistoryJSON  = "btc_history.json"
)

// btcDownsampleStep keeps every 7th chart sample for the website backdrop.
const btcDownsampleStep = 7

// Exporter writes the analysis artifacts as JSON documents for the
// presentation layer.
type Exporter struct {
	// OutDir is the website data directory.
	OutDir string
	// IncludeInvalid keeps tokens that fail validation in the export (with
	// a warning) instead of dropping them. Dropping risks silent data loss,
	// so passing through is the default.
	IncludeInvalid bool
}

// NewExporter creates an exporter with the pass-through validation policy.
func NewExporter(outDir string) *Exporter {
	return &Exporter{OutDir: outDir, IncludeInvalid: true}
}

// ExportTokens validates, sanitizes and writes the token array.
func (e *Exporter) ExportTokens(tokens []*types.Token) error {
	out := make([]*types.Token, 0, len(tokens))
	for _, t := range tokens {
		if errs := ValidateToken(t); len(errs) > 0 {
			log.Warn().Str("symbol", t.Symbol).Errs("fields", fieldErrs(errs)).Msg("token failed validation")
			if !e.IncludeInvalid {
				continue
			}
		}
		SanitizeToken(t)
		out = append(out, t)
	}
	if err := e.writeJSON(TokensJSON, out); err != nil {
		return err
	}
	log.Info().Int("tokens", len(out)).Str("file", TokensJSON).Msg("exported tokens")
	return nil
}

// ExportSummary sanitizes and writes the summary statistics.
func (e *Exporter) ExportSummary(summary *types.SummaryStats) error {
	SanitizeSummary(summary)
	return e.writeJSON(SummaryJSON, summary)
}

// ExportCycleTable writes the cycle table with ISO boundary dates.
func (e *Exporter) ExportCycleTable(table []cycles.Cycle) error {
	return e.writeJSON(CyclesJSON, cycles.Dump(table))
}

// ExportSensitivity writes the boundary-shift study results.
func (e *Exporter) ExportSensitivity(results []types.SensitivityResult) error {
	SanitizeSensitivity(results)
	return e.writeJSON(SensitivityJSON, results)
}

// ExportRobustness writes the moving-average study results.
func (e *Exporter) ExportRobustness(results []types.RobustnessResult) error {
	SanitizeRobustness(results)
	return e.writeJSON(RobustnessJSON, results)
}

// ExportBTCHistory writes a weekly-downsampled Bitcoin chart for the website
// backdrop.
func (e *Exporter) ExportBTCHistory(series *types.PriceSeries) error {
	if series.Empty() {
		return nil
	}
	return e.writeJSON(BTCHistoryJSON, series.Downsample(btcDownsampleStep))
}

func (e *Exporter) writeJSON(name string, v any) error {
	if err := os.MkdirAll(e.OutDir, 0755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return os.WriteFile(filepath.Join(e.OutDir, name), raw, 0644)
}

func fieldErrs(errs []FieldError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
