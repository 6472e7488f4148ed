package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cyclelab/token-cycles/internal/analysis"
	"github.com/cyclelab/token-cycles/internal/cycles"
	"github.com/cyclelab/token-cycles/internal/metrics"
	"github.com/cyclelab/token-cycles/pkg/config"
	"github.com/cyclelab/token-cycles/pkg/data"
	"github.com/cyclelab/token-cycles/pkg/reporting"
)

const (
	AppName    = "token-cycles analyze"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewAnalyzeFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.Load(*flags.EnvFile)

	evalDate := time.Now().UTC()
	if *flags.EvalDate != "" {
		parsed, err := time.Parse("2006-01-02", *flags.EvalDate)
		if err != nil {
			log.Fatal().Str("eval-date", *flags.EvalDate).Msg("eval date must be YYYY-MM-DD")
		}
		evalDate = parsed
	}

	tokens, err := data.LoadTokens(cfg.ProcessedDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ProcessedDir).Msg("failed to load collected tokens (run collect first)")
	}
	btcChart, err := data.LoadBTCChart(cfg.ProcessedDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load BTC chart")
	}
	log.Info().Int("tokens", len(tokens)).Msg("loaded collected data")

	classifier := cycles.NewClassifier(cycles.Default())
	engine := metrics.NewEngine(classifier, btcChart)
	engine.Compute(tokens, evalDate)

	summary := analysis.ComputeSummary(tokens)
	sensitivity := analysis.ComputeSensitivity(tokens, classifier)
	robustness := analysis.ComputeMARobustness(tokens, btcChart)

	// Stablecoins and wrapped assets stay out of the published table too.
	exportTokens, _, _ := analysis.FilterTokens(tokens)

	exporter := reporting.NewExporter(cfg.WebsiteDataDir)
	if err := exporter.ExportTokens(exportTokens); err != nil {
		log.Fatal().Err(err).Msg("token export failed")
	}
	if err := exporter.ExportSummary(summary); err != nil {
		log.Fatal().Err(err).Msg("summary export failed")
	}
	if err := exporter.ExportCycleTable(classifier.Table()); err != nil {
		log.Fatal().Err(err).Msg("cycle table export failed")
	}
	if err := exporter.ExportSensitivity(sensitivity); err != nil {
		log.Fatal().Err(err).Msg("sensitivity export failed")
	}
	if err := exporter.ExportRobustness(robustness); err != nil {
		log.Fatal().Err(err).Msg("robustness export failed")
	}
	if err := exporter.ExportBTCHistory(btcChart); err != nil {
		log.Fatal().Err(err).Msg("BTC history export failed")
	}
	log.Info().Str("dir", cfg.WebsiteDataDir).Msg("exported analysis artifacts")

	if *flags.XLSXPath != "" {
		if err := reporting.WriteWorkbookXLSX(exportTokens, summary, sensitivity, *flags.XLSXPath); err != nil {
			log.Fatal().Err(err).Msg("workbook export failed")
		}
		log.Info().Str("path", *flags.XLSXPath).Msg("wrote Excel workbook")
	}

	if !*flags.Quiet {
		reporting.PrintSummary(summary)
		reporting.PrintSensitivity(sensitivity)
		reporting.PrintRobustness(robustness)
	}
}
