package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"time"

	"stockDash/config"
	"stockDash/internal/adapters/sqlite"
	"stockDash/internal/app"
	"stockDash/internal/render"
)

func main() {
	watch := flag.Bool("watch", false, "Refresh on the WATCH_CRON schedule until interrupted")
	history := flag.Int("history", 0, "List the N most recent runs and exit")
	format := flag.String("format", "table", "Output format: table, csv or json")
	signals := flag.Bool("signals", false, "Also print crossover events and headlines per symbol")
	flag.Parse()

	switch *format {
	case "table", "csv", "json":
	default:
		log.Fatalf("FATAL: unsupported -format %q", *format)
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger, flush, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer flush()
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()
	appLogger.Info(ctx, "Database repository initialized")

	// 4. Initialize Market Data Provider and News Source
	provider, err := app.NewProvider(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize market data provider")
		log.Fatalf("FATAL: Failed to initialize market data provider: %v", err)
	}
	headlines, err := app.NewHeadlineSource(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize news source")
		log.Fatalf("FATAL: Failed to initialize news source: %v", err)
	}
	appLogger.Info(ctx, "Data sources initialized", map[string]interface{}{"provider": provider.Name(), "news": cfg.NewsSource})

	// 5. Initialize Analyzer
	analyzer, err := app.NewAnalyzer(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize trend analyzer")
		log.Fatalf("FATAL: Failed to initialize trend analyzer: %v", err)
	}

	// 6. Initialize Application Service
	dashboard, err := app.NewDashboardService(cfg, appLogger, provider, analyzer, headlines, repo)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize dashboard service")
		log.Fatalf("FATAL: Failed to initialize dashboard service: %v", err)
	}

	// 7. Run
	if *history > 0 {
		runs, err := dashboard.History(ctx, *history)
		if err != nil {
			log.Fatalf("FATAL: Failed to load run history: %v", err)
		}
		if err := render.History(os.Stdout, runs); err != nil {
			log.Fatalf("FATAL: Failed to render run history: %v", err)
		}
		return
	}

	show := func(res *app.Result, err error) {
		if err != nil {
			appLogger.Error(ctx, err, "Dashboard refresh failed")
		}
		if res == nil {
			return
		}
		if err := output(os.Stdout, *format, *signals, cfg, res); err != nil {
			appLogger.Error(ctx, err, "Failed to render dashboard")
		}
	}

	if *watch {
		if err := dashboard.Watch(ctx, cfg.WatchCron, show); err != nil {
			appLogger.Error(ctx, err, "Dashboard watch exited with error")
			log.Fatalf("FATAL: Dashboard watch exited with error: %v", err)
		}
		return
	}

	res, err := dashboard.Refresh(ctx)
	show(res, err)
	appLogger.Info(ctx, "Application finished gracefully.")
}

func output(w io.Writer, format string, signals bool, cfg *config.Config, res *app.Result) error {
	switch format {
	case "json":
		return render.JSON(w, res.Reports)
	case "csv":
		for _, report := range res.Reports {
			if err := render.ReportCSV(w, res.Series[report.Symbol], report); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintf(w, "Run %s  %s  %s to %s\n\n", res.Run.ID, res.Run.Provider,
		res.Run.Start.Format(time.DateOnly), res.Run.End.Format(time.DateOnly))
	if err := render.Dashboard(w, res.Reports, res.Failed, cfg.ShortMAWindow, cfg.LongMAWindow); err != nil {
		return err
	}
	if !signals {
		return nil
	}
	for _, report := range res.Reports {
		fmt.Fprintf(w, "\n== %s ==\n", report.Symbol)
		if err := render.Signals(w, report); err != nil {
			return err
		}
		if err := render.Headlines(w, report); err != nil {
			return err
		}
	}
	return nil
}
