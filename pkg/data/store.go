package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	// TokensFile is the collected token set under the processed dir.
	TokensFile = "collected_tokens.json"
	// BTCChartFile is the raw Bitcoin market chart under the processed dir.
	BTCChartFile = "btc_chart.json"
)

// SaveTokens writes the collected token set to the processed directory.
func SaveTokens(processedDir string, tokens []*types.Token) error {
	return writeJSON(filepath.Join(processedDir, TokensFile), tokens)
}

// LoadTokens reads the collected token set back.
func LoadTokens(processedDir string) ([]*types.Token, error) {
	var tokens []*types.Token
	if err := readJSON(filepath.Join(processedDir, TokensFile), &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SaveBTCChart writes the raw Bitcoin price series.
func SaveBTCChart(processedDir string, series *types.PriceSeries) error {
	return writeJSON(filepath.Join(processedDir, BTCChartFile), series)
}

// LoadBTCChart reads the Bitcoin price series. A missing file yields an
// empty series rather than an error: BTC-relative metrics then stay absent.
func LoadBTCChart(processedDir string) (*types.PriceSeries, error) {
	path := filepath.Join(processedDir, BTCChartFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &types.PriceSeries{}, nil
	}
	var series types.PriceSeries
	if err := readJSON(path, &series); err != nil {
		return nil, err
	}
	return &series, nil
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, raw, 0644)
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
