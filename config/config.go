package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockDash/internal/adapters/logger" // Import the logger package for LogLevel
)

// Supported data providers.
const (
	ProviderYahoo     = "yahoo"
	ProviderAlpaca    = "alpaca"
	ProviderBinance   = "binance"
	ProviderCSV       = "csv"
	ProviderSynthetic = "synthetic"
)

// Supported headline sources.
const (
	NewsFinviz = "finviz"
	NewsAlpaca = "alpaca"
	NewsNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	// Data selection
	DataProvider string
	Symbols      []string
	StartDate    time.Time
	EndDate      time.Time

	// Analysis windows
	ShortMAWindow    int // e.g., 50
	LongMAWindow     int // e.g., 200
	VolatilityWindow int // e.g., 20
	EMAPeriod        int // e.g., 20
	RSIPeriod        int // e.g., 14
	ATRPeriod        int // e.g., 14

	// News
	NewsSource    string
	HeadlineLimit int

	// Alpaca API
	AlpacaAPIKey    string
	AlpacaAPISecret string
	AlpacaFeed      string

	// Binance API
	BinanceAPIKey    string
	BinanceSecretKey string
	IsTestnet        bool

	// Offline data
	CSVDir string

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel // Use the LogLevel type from the logger adapter
	LogFormat string          // "text" or "json"

	// Fetching and scheduling
	FetchTimeout  time.Duration
	WatchCron     string
	WatchlistFile string
}

// LoadConfig loads configuration from environment variables (.env file),
// with an optional YAML watchlist supplying symbol and date defaults.
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Watchlist file defaults
	cfg.WatchlistFile = getEnv("WATCHLIST_FILE", "")
	var wl *Watchlist
	if cfg.WatchlistFile != "" {
		wl, err = LoadWatchlist(cfg.WatchlistFile)
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	// Data selection
	cfg.DataProvider = strings.ToLower(getEnv("DATA_PROVIDER", ProviderYahoo))
	switch cfg.DataProvider {
	case ProviderYahoo, ProviderAlpaca, ProviderBinance, ProviderCSV, ProviderSynthetic:
	default:
		errs = append(errs, fmt.Sprintf("unsupported DATA_PROVIDER %q", cfg.DataProvider))
	}

	defaultSymbols := "AAPL,MSFT,GOOGL"
	if wl != nil && len(wl.Symbols) > 0 {
		defaultSymbols = strings.Join(wl.Symbols, ",")
	}
	cfg.Symbols = ParseSymbols(getEnv("SYMBOLS", defaultSymbols))
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must list at least one symbol")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	defaultEnd := today.Format(time.DateOnly)
	if wl != nil && wl.End != "" {
		defaultEnd = wl.End
	}
	cfg.EndDate, err = ParseDate(getEnv("END_DATE", defaultEnd))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid END_DATE: %v", err))
	}

	// Two years leaves room for the 200-day average to fill.
	defaultStart := cfg.EndDate.AddDate(-2, 0, 0).Format(time.DateOnly)
	if wl != nil && wl.Start != "" {
		defaultStart = wl.Start
	}
	cfg.StartDate, err = ParseDate(getEnv("START_DATE", defaultStart))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid START_DATE: %v", err))
	}
	if !cfg.StartDate.IsZero() && !cfg.EndDate.IsZero() && cfg.StartDate.After(cfg.EndDate) {
		errs = append(errs, "START_DATE must not be after END_DATE")
	}

	// Analysis windows
	cfg.ShortMAWindow, err = getEnvAsIntRequired("SHORT_MA_WINDOW", 50)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid SHORT_MA_WINDOW: %v", err))
	}
	cfg.LongMAWindow, err = getEnvAsIntRequired("LONG_MA_WINDOW", 200)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid LONG_MA_WINDOW: %v", err))
	}
	cfg.VolatilityWindow, err = getEnvAsIntRequired("VOLATILITY_WINDOW", 20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid VOLATILITY_WINDOW: %v", err))
	}
	cfg.EMAPeriod = getEnvAsInt("EMA_PERIOD", 20)
	cfg.RSIPeriod = getEnvAsInt("RSI_PERIOD", 14)
	cfg.ATRPeriod = getEnvAsInt("ATR_PERIOD", 14)

	if cfg.ShortMAWindow <= 0 || cfg.LongMAWindow <= 0 || cfg.EMAPeriod <= 0 || cfg.RSIPeriod <= 0 || cfg.ATRPeriod <= 0 {
		errs = append(errs, "analysis windows (MA, EMA, RSI, ATR) must be positive")
	}
	if cfg.ShortMAWindow >= cfg.LongMAWindow {
		errs = append(errs, "SHORT_MA_WINDOW must be less than LONG_MA_WINDOW")
	}
	if cfg.VolatilityWindow < 1 {
		errs = append(errs, "VOLATILITY_WINDOW must be positive")
	}

	// News
	cfg.NewsSource = strings.ToLower(getEnv("NEWS_SOURCE", NewsFinviz))
	switch cfg.NewsSource {
	case NewsFinviz, NewsAlpaca, NewsNone:
	default:
		errs = append(errs, fmt.Sprintf("unsupported NEWS_SOURCE %q", cfg.NewsSource))
	}
	cfg.HeadlineLimit = getEnvAsInt("HEADLINE_LIMIT", 5)
	if cfg.HeadlineLimit < 0 || cfg.HeadlineLimit > 5 {
		errs = append(errs, "HEADLINE_LIMIT must be between 0 and 5")
	}

	// Alpaca API
	cfg.AlpacaAPIKey = getEnv("ALPACA_API_KEY", "")
	cfg.AlpacaAPISecret = getEnv("ALPACA_API_SECRET", "")
	cfg.AlpacaFeed = getEnv("ALPACA_FEED", "iex")
	if cfg.DataProvider == ProviderAlpaca || cfg.NewsSource == NewsAlpaca {
		if cfg.AlpacaAPIKey == "" {
			errs = append(errs, "ALPACA_API_KEY must be set")
		}
		if cfg.AlpacaAPISecret == "" {
			errs = append(errs, "ALPACA_API_SECRET must be set")
		}
	}

	// Binance API (klines are public, keys optional)
	cfg.BinanceAPIKey = getEnv("BINANCE_API_KEY", "")
	cfg.BinanceSecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Offline data
	cfg.CSVDir = getEnv("CSV_DIR", "./data/bars")

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/stock_dash.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "text"))
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be text or json")
	}

	// Fetching and scheduling
	timeoutSeconds := getEnvAsInt("FETCH_TIMEOUT_SECONDS", 30)
	if timeoutSeconds <= 0 {
		errs = append(errs, "FETCH_TIMEOUT_SECONDS must be positive")
	}
	cfg.FetchTimeout = time.Duration(timeoutSeconds) * time.Second
	cfg.WatchCron = getEnv("WATCH_CRON", "0 22 * * 1-5") // After the US close on weekdays

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// ParseSymbols splits a comma or whitespace separated list into upper-cased,
// de-duplicated symbols in their original order.
func ParseSymbols(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		sym := strings.ToUpper(strings.TrimSpace(f))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
