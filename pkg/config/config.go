package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the collection and analysis CLIs need. Values come
// from the environment (optionally seeded from a .env file); every field has
// a working default so a fresh checkout runs against the free API tiers.
type Config struct {
	DataDir        string
	RawDir         string
	ProcessedDir   string
	WebsiteDataDir string

	CoinGecko struct {
		APIKey    string
		ProBase   string
		FreeBase  string
		ProDelay  time.Duration
		FreeDelay time.Duration
	}

	Binance struct {
		CMSBase      string
		RequestDelay time.Duration
		PageSize     int
	}

	TopNTokens   int
	MappingPages int

	Monitoring struct {
		MetricsPort int
	}
}

// Load reads configuration from the environment. envFile, when non-empty,
// is loaded first via godotenv; a missing file is not an error.
func Load(envFile string) *Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		TopNTokens:   getEnvInt("TOP_N_TOKENS", 200),
		MappingPages: getEnvInt("COINGECKO_MAPPING_PAGES", 10),
	}
	cfg.RawDir = filepath.Join(cfg.DataDir, "raw")
	cfg.ProcessedDir = filepath.Join(cfg.DataDir, "processed")
	cfg.WebsiteDataDir = getEnv("WEBSITE_DATA_DIR", filepath.Join("website", "public", "data"))

	cfg.CoinGecko.APIKey = getEnv("COINGECKO_API_KEY", "")
	cfg.CoinGecko.ProBase = getEnv("COINGECKO_PRO_BASE", "https://pro-api.coingecko.com/api/v3")
	cfg.CoinGecko.FreeBase = getEnv("COINGECKO_FREE_BASE", "https://api.coingecko.com/api/v3")
	cfg.CoinGecko.ProDelay = getEnvDuration("COINGECKO_PRO_DELAY", 150*time.Millisecond)
	cfg.CoinGecko.FreeDelay = getEnvDuration("COINGECKO_FREE_DELAY", 6500*time.Millisecond)

	cfg.Binance.CMSBase = getEnv("BINANCE_CMS_BASE", "https://www.binance.com/bapi/composite/v1/public/cms/article/list/query")
	cfg.Binance.RequestDelay = getEnvDuration("BINANCE_REQUEST_DELAY", 2*time.Second)
	cfg.Binance.PageSize = getEnvInt("BINANCE_PAGE_SIZE", 50)

	cfg.Monitoring.MetricsPort = getEnvInt("METRICS_PORT", 8080)

	return cfg
}

// EnsureDirs creates the data directories the pipeline writes into.
func (c *Config) EnsureDirs() error {
	for _, d := range []string{c.RawDir, c.ProcessedDir, c.WebsiteDataDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
