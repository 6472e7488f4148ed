package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cyclelab/token-cycles/internal/collector"
	"github.com/cyclelab/token-cycles/internal/exchange/binance"
	"github.com/cyclelab/token-cycles/internal/exchange/coingecko"
	"github.com/cyclelab/token-cycles/internal/monitoring"
	"github.com/cyclelab/token-cycles/pkg/config"
	"github.com/cyclelab/token-cycles/pkg/data"
	"github.com/cyclelab/token-cycles/pkg/types"
)

const (
	AppName    = "token-cycles collect"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewCollectFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *flags.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := config.Load(*flags.EnvFile)
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directories")
	}

	if *flags.MetricsPort > 0 {
		monitoring.Serve(*flags.MetricsPort)
		log.Info().Int("port", *flags.MetricsPort).Msg("metrics endpoint up")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("cancelling collection")
		cancel()
	}()

	cgCache, err := data.NewFileCache(cfg.RawDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache")
	}
	binanceCache, err := data.NewFileCache(filepath.Join(cfg.RawDir, "binance"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache")
	}

	cgClient := coingecko.NewClient(coingecko.Config{
		APIKey:    cfg.CoinGecko.APIKey,
		ProBase:   cfg.CoinGecko.ProBase,
		FreeBase:  cfg.CoinGecko.FreeBase,
		ProDelay:  cfg.CoinGecko.ProDelay,
		FreeDelay: cfg.CoinGecko.FreeDelay,
	}, cgCache)
	binanceClient := binance.NewClient(binance.Config{
		CMSBase:      cfg.Binance.CMSBase,
		RequestDelay: cfg.Binance.RequestDelay,
		PageSize:     cfg.Binance.PageSize,
	}, binanceCache)

	coll := collector.New(binanceClient, cgClient)
	coll.MappingPages = cfg.MappingPages

	var (
		tokens   []*types.Token
		btcChart *types.PriceSeries
	)
	if *flags.TopN {
		tokens, btcChart, err = coll.CollectTopN(ctx, cfg.TopNTokens)
	} else {
		tokens, btcChart, err = coll.Collect(ctx, *flags.Limit)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("collection failed")
	}

	if err := data.SaveBTCChart(cfg.ProcessedDir, btcChart); err != nil {
		log.Fatal().Err(err).Msg("failed to save BTC chart")
	}
	if err := data.SaveTokens(cfg.ProcessedDir, tokens); err != nil {
		log.Fatal().Err(err).Msg("failed to save tokens")
	}

	delisted := 0
	withPrice := 0
	genesis := 0
	for _, t := range tokens {
		if t.BinanceDelisted {
			delisted++
		}
		if t.CurrentPrice != nil {
			withPrice++
		}
		if t.LaunchSource != nil && *t.LaunchSource == collector.SourceCoinGeckoGenesis {
			genesis++
		}
	}
	log.Info().
		Int("tokens", len(tokens)).
		Int("delisted", delisted).
		Int("with_price", withPrice).
		Int("genesis_launch", genesis).
		Str("dir", cfg.ProcessedDir).
		Msg("collection complete")
}
