package main

import "flag"

// CollectFlags holds all command line flags for the collect command.
type CollectFlags struct {
	EnvFile     *string
	Limit       *int
	TopN        *bool
	MetricsPort *int
	Verbose     *bool
	ShowVersion *bool
}

// NewCollectFlags defines the collect command's flag set.
func NewCollectFlags() *CollectFlags {
	return &CollectFlags{
		EnvFile:     flag.String("env", "", "Path to .env file (default: .env in working directory)"),
		Limit:       flag.Int("limit", 0, "Limit number of listings to process (0 = all; use a small value for test runs)"),
		TopN:        flag.Bool("top-n", false, "Collect the current top-N CoinGecko tokens instead of the Binance listing history"),
		MetricsPort: flag.Int("metrics-port", 0, "Serve Prometheus metrics on this port while collecting (0 = disabled)"),
		Verbose:     flag.Bool("verbose", false, "Enable debug logging"),
		ShowVersion: flag.Bool("version", false, "Show version and exit"),
	}
}
