package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"stockDash/config"
	"stockDash/internal/app"
	"stockDash/internal/ports"
	"stockDash/internal/utils"
)

func main() {
	symbols := flag.String("symbols", "", "Comma separated symbols (defaults to SYMBOLS)")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}
	if *symbols != "" {
		cfg.Symbols = config.ParseSymbols(*symbols)
	}
	if cfg.DataProvider == config.ProviderCSV {
		log.Fatalf("FATAL: DATA_PROVIDER=csv reads the files this command writes; choose a network provider")
	}

	// 2. Initialize Logger
	appLogger, flush, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer flush()
	ctx := context.Background()

	// 3. Initialize Market Data Provider
	provider, err := app.NewProvider(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize market data provider")
		log.Fatalf("FATAL: Failed to initialize market data provider: %v", err)
	}

	appLogger.Info(ctx, "Fetching bars", map[string]interface{}{
		"provider": provider.Name(),
		"symbols":  cfg.Symbols,
		"start":    cfg.StartDate.Format(time.DateOnly),
		"end":      cfg.EndDate.Format(time.DateOnly),
	})
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()
	series, err := provider.FetchSeries(fetchCtx, cfg.Symbols, cfg.StartDate, cfg.EndDate)
	var failed ports.SymbolErrors
	if errors.As(err, &failed) {
		for symbol, ferr := range failed {
			appLogger.Error(ctx, ferr, "Error fetching bars", map[string]interface{}{"symbol": symbol})
		}
	} else if err != nil {
		appLogger.Error(ctx, err, "Error fetching bars")
		log.Fatalf("Error fetching bars: %v", err)
	}

	for _, symbol := range cfg.Symbols {
		if _, ok := failed[symbol]; ok {
			continue
		}
		ps, ok := series[symbol]
		if !ok || ps.IsEmpty() {
			appLogger.Warn(ctx, "No bars returned", map[string]interface{}{"symbol": symbol})
			continue
		}
		filename := utils.BarFilePath(cfg.CSVDir, symbol)
		if err := utils.WriteBarsToCSV(ps, filename); err != nil {
			appLogger.Error(ctx, err, "Error writing CSV", map[string]interface{}{"symbol": symbol})
			continue
		}
		appLogger.Info(ctx, "Saved to", map[string]interface{}{"filename": filename, "count": ps.Len()})
	}
}
