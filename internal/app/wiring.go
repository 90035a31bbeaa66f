package app

import (
	"fmt"

	"stockDash/config"
	"stockDash/internal/adapters/alpacadata"
	"stockDash/internal/adapters/binanceclient"
	"stockDash/internal/adapters/finviz"
	"stockDash/internal/adapters/logger"
	"stockDash/internal/adapters/memo"
	"stockDash/internal/adapters/synthetic"
	"stockDash/internal/adapters/yahoo"
	"stockDash/internal/ports"
	"stockDash/internal/strategy"
	"stockDash/internal/utils"
)

// syntheticSeed keeps demo runs reproducible between invocations.
const syntheticSeed = 42

// NewLogger builds the logger selected by LOG_FORMAT.
// The returned func flushes buffered output and should be deferred.
func NewLogger(cfg *config.Config) (ports.Logger, func(), error) {
	if cfg.LogFormat == "json" {
		zl, err := logger.NewZapLogger(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zap logger: %w", err)
		}
		return zl, func() { _ = zl.Sync() }, nil
	}
	return logger.NewStdLogger(cfg.LogLevel), func() {}, nil
}

// NewProvider builds the market data provider selected by DATA_PROVIDER.
// Network providers are memoized for the lifetime of the process.
func NewProvider(cfg *config.Config, log ports.Logger) (ports.MarketDataProvider, error) {
	var (
		p   ports.MarketDataProvider
		err error
	)
	switch cfg.DataProvider {
	case config.ProviderYahoo:
		p, err = yahoo.New(yahoo.Config{Logger: log})
	case config.ProviderAlpaca:
		p, err = alpacadata.New(alpacadata.Config{
			APIKey:    cfg.AlpacaAPIKey,
			APISecret: cfg.AlpacaAPISecret,
			Feed:      cfg.AlpacaFeed,
			Logger:    log,
		})
	case config.ProviderBinance:
		p, err = binanceclient.New(binanceclient.Config{
			APIKey:     cfg.BinanceAPIKey,
			SecretKey:  cfg.BinanceSecretKey,
			UseTestnet: cfg.IsTestnet,
			Logger:     log,
		})
	case config.ProviderCSV:
		return utils.NewCSVProvider(cfg.CSVDir, log), nil
	case config.ProviderSynthetic:
		return synthetic.NewProvider(syntheticSeed), nil
	default:
		return nil, fmt.Errorf("unsupported data provider %q: %w", cfg.DataProvider, ports.ErrConfigurationError)
	}
	if err != nil {
		return nil, err
	}
	return memo.New(p, log), nil
}

// NewHeadlineSource builds the news source selected by NEWS_SOURCE.
// It returns nil when news is disabled.
func NewHeadlineSource(cfg *config.Config, log ports.Logger) (ports.HeadlineSource, error) {
	if cfg.HeadlineLimit == 0 {
		return nil, nil
	}
	switch cfg.NewsSource {
	case config.NewsNone:
		return nil, nil
	case config.NewsFinviz:
		return finviz.New("", nil, log), nil
	case config.NewsAlpaca:
		c, err := alpacadata.New(alpacadata.Config{
			APIKey:    cfg.AlpacaAPIKey,
			APISecret: cfg.AlpacaAPISecret,
			Feed:      cfg.AlpacaFeed,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported news source %q: %w", cfg.NewsSource, ports.ErrConfigurationError)
	}
}

// NewAnalyzer builds the trend analyzer from the configured windows.
func NewAnalyzer(cfg *config.Config, log ports.Logger) (*strategy.Strategy, error) {
	sc := strategy.DefaultConfig()
	sc.ShortWindow = cfg.ShortMAWindow
	sc.LongWindow = cfg.LongMAWindow
	sc.VolatilityWindow = cfg.VolatilityWindow
	sc.EMAPeriod = cfg.EMAPeriod
	sc.RSIPeriod = cfg.RSIPeriod
	sc.ATRPeriod = cfg.ATRPeriod
	return strategy.New(sc, log)
}
