package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"stockDash/config"
	"stockDash/internal/domain"
	"stockDash/internal/ports"
)

// Result is the outcome of one dashboard refresh.
type Result struct {
	Run     domain.Run
	Series  map[string]*domain.PriceSeries
	Reports []*domain.TrendReport  // Analyzed symbols in request order
	Failed  []*domain.SymbolResult // Symbols without data or with a failed computation
}

// DashboardService orchestrates fetch, analysis, news lookup and run recording.
type DashboardService struct {
	cfg       *config.Config
	logger    ports.Logger
	provider  ports.MarketDataProvider
	analyzer  ports.Analyzer
	headlines ports.HeadlineSource // Optional
	runs      ports.RunRepository  // Optional

	now   func() time.Time
	newID func() string

	mu sync.Mutex // Serializes refreshes triggered by the scheduler
}

// NewDashboardService creates a new application service instance.
// headlines and runs may be nil to disable news and run history.
func NewDashboardService(
	cfg *config.Config,
	logger ports.Logger,
	provider ports.MarketDataProvider,
	analyzer ports.Analyzer,
	headlines ports.HeadlineSource,
	runs ports.RunRepository,
) (*DashboardService, error) {
	if cfg == nil || logger == nil || provider == nil || analyzer == nil {
		return nil, fmt.Errorf("missing required dependencies for DashboardService")
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("configuration FetchTimeout must be positive")
	}
	return &DashboardService{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		analyzer:  analyzer,
		headlines: headlines,
		runs:      runs,
		now:       time.Now,
		newID:     uuid.NewString,
	}, nil
}

// Refresh analyzes the configured symbols over the configured date range.
func (s *DashboardService) Refresh(ctx context.Context) (*Result, error) {
	return s.Analyze(ctx, s.cfg.Symbols, s.cfg.StartDate, s.cfg.EndDate)
}

// Analyze fetches and analyzes symbols. A symbol without data or whose
// computation fails is reported in Result.Failed and does not affect the
// others. An error is returned only for invalid input or when the fetch as a
// whole failed.
func (s *DashboardService) Analyze(ctx context.Context, symbols []string, start, end time.Time) (*Result, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols requested: %w", ports.ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end %s before start %s: %w", end.Format(time.DateOnly), start.Format(time.DateOnly), ports.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{Run: domain.Run{
		ID:        s.newID(),
		StartedAt: s.now().UTC(),
		Provider:  s.provider.Name(),
		Symbols:   append([]string(nil), symbols...),
		Start:     start,
		End:       end,
	}}
	ctx = ports.WithLogFields(ctx, map[string]interface{}{"runID": res.Run.ID})
	s.logger.Info(ctx, "Dashboard refresh started", map[string]interface{}{
		"provider": res.Run.Provider,
		"symbols":  len(symbols),
		"start":    start.Format(time.DateOnly),
		"end":      end.Format(time.DateOnly),
	})
	s.recordRun(ctx, &res.Run)

	series, failed, err := s.fetch(ctx, symbols, start, end)
	if err != nil {
		s.logger.Error(ctx, err, "Market data fetch failed")
		for _, sym := range symbols {
			s.fail(ctx, res, sym, domain.StatusFetchFailed, err)
		}
		s.finishRun(ctx, &res.Run)
		return res, fmt.Errorf("fetch failed: %w", err)
	}
	res.Series = series

	for _, sym := range symbols {
		if ferr, ok := failed[sym]; ok {
			s.fail(ctx, res, sym, domain.StatusFetchFailed, ferr)
			continue
		}
		ps, ok := series[sym]
		if !ok || ps.IsEmpty() {
			s.fail(ctx, res, sym, domain.StatusNoData, ports.ErrNoData)
			continue
		}

		report, err := s.analyzer.Analyze(ctx, ps)
		if err != nil {
			status := domain.StatusSkipped
			if errors.Is(err, ports.ErrNoData) {
				status = domain.StatusNoData
			}
			s.fail(ctx, res, sym, status, err)
			continue
		}
		if s.headlines != nil && s.cfg.HeadlineLimit > 0 {
			report.Headlines = s.headlines.Headlines(ctx, sym, s.cfg.HeadlineLimit)
		}

		res.Reports = append(res.Reports, report)
		res.Run.Succeeded++
		summary := report.Summary
		s.saveResult(ctx, &domain.SymbolResult{RunID: res.Run.ID, Symbol: sym, Status: domain.StatusAnalyzed, Summary: &summary})
		if s.runs != nil {
			if err := s.runs.SaveSignals(ctx, res.Run.ID, sym, report.Crosses); err != nil {
				s.logger.Warn(ctx, "Failed to record signals", map[string]interface{}{"symbol": sym, "error": err.Error()})
			}
		}
	}

	s.finishRun(ctx, &res.Run)
	s.logger.Info(ctx, "Dashboard refresh finished", map[string]interface{}{
		"succeeded": res.Run.Succeeded,
		"failed":    res.Run.Failed,
	})
	return res, nil
}

// History returns the most recent recorded runs.
func (s *DashboardService) History(ctx context.Context, limit int) ([]*domain.Run, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run history is disabled: %w", ports.ErrConfigurationError)
	}
	return s.runs.RecentRuns(ctx, limit)
}

// Watch refreshes on the cron schedule until ctx is canceled or the process
// receives SIGINT/SIGTERM. Each result is handed to onResult.
func (s *DashboardService) Watch(ctx context.Context, schedule string, onResult func(*Result, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel()
		case <-ctx.Done():
		}
	}()

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		res, err := s.Refresh(ctx)
		onResult(res, err)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w: %w", schedule, ports.ErrConfigurationError, err)
	}
	c.Start()
	s.logger.Info(ctx, "Watching for scheduled refreshes", map[string]interface{}{"schedule": schedule})

	<-ctx.Done()
	s.logger.Info(ctx, "Stopping scheduler...")
	// Wait for a running refresh to finish
	<-c.Stop().Done()
	s.logger.Info(ctx, "Dashboard watch stopped.")
	return nil
}

// fetch runs one bounded, non-retried provider call. Symbols the provider
// reported as failed individually are returned separately from a failure of
// the whole request.
func (s *DashboardService) fetch(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, ports.SymbolErrors, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	series, err := s.provider.FetchSeries(fetchCtx, symbols, start, end)
	var failed ports.SymbolErrors
	if err != nil && !errors.As(err, &failed) {
		if !errors.Is(err, ports.ErrFetchFailure) {
			err = fmt.Errorf("%w: %w", ports.ErrFetchFailure, err)
		}
		return nil, nil, err
	}
	if series == nil {
		series = map[string]*domain.PriceSeries{}
	}
	return series, failed, nil
}

// normalizeSymbols upper-cases and trims symbols, dropping blanks and repeats.
func normalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

func (s *DashboardService) fail(ctx context.Context, res *Result, symbol string, status domain.SymbolStatus, err error) {
	s.logger.Warn(ctx, "Symbol not analyzed", map[string]interface{}{"symbol": symbol, "status": status, "reason": err.Error()})
	result := &domain.SymbolResult{RunID: res.Run.ID, Symbol: symbol, Status: status, Message: err.Error()}
	res.Failed = append(res.Failed, result)
	res.Run.Failed++
	s.saveResult(ctx, result)
}

// --- Run recording; failures here never affect the dashboard ---

func (s *DashboardService) recordRun(ctx context.Context, run *domain.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		s.logger.Warn(ctx, "Failed to record run", map[string]interface{}{"error": err.Error()})
	}
}

func (s *DashboardService) finishRun(ctx context.Context, run *domain.Run) {
	if s.runs == nil {
		return
	}
	if err := s.runs.FinishRun(ctx, run); err != nil {
		s.logger.Warn(ctx, "Failed to update run", map[string]interface{}{"error": err.Error()})
	}
}

func (s *DashboardService) saveResult(ctx context.Context, result *domain.SymbolResult) {
	if s.runs == nil {
		return
	}
	if err := s.runs.SaveResult(ctx, result); err != nil {
		s.logger.Warn(ctx, "Failed to record symbol result", map[string]interface{}{"symbol": result.Symbol, "error": err.Error()})
	}
}
