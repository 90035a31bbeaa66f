package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockDash/config"
	"stockDash/internal/domain"
	"stockDash/internal/ports"
	"stockDash/internal/strategy"
)

// Mock implementations
type mockLogger struct {
	mu        sync.Mutex
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockProvider struct {
	series    map[string]*domain.PriceSeries
	err       error
	calls     int
	requested []string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	m.calls++
	m.requested = symbols
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("fetch must be bounded by a deadline")
	}
	return m.series, m.err
}

type mockHeadlines struct {
	requested []string
}

func (m *mockHeadlines) Headlines(ctx context.Context, symbol string, limit int) []domain.Headline {
	m.requested = append(m.requested, symbol)
	return []domain.Headline{{Title: symbol + " news"}}
}

type mockRunRepo struct {
	runs     map[string]*domain.Run
	results  []*domain.SymbolResult
	signals  map[string][]domain.SignalEvent
	failSave bool
}

func newMockRunRepo() *mockRunRepo {
	return &mockRunRepo{runs: map[string]*domain.Run{}, signals: map[string][]domain.SignalEvent{}}
}

func (m *mockRunRepo) CreateRun(ctx context.Context, run *domain.Run) error {
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *mockRunRepo) FinishRun(ctx context.Context, run *domain.Run) error {
	stored, ok := m.runs[run.ID]
	if !ok {
		return ports.ErrNotFound
	}
	stored.Succeeded, stored.Failed = run.Succeeded, run.Failed
	return nil
}

func (m *mockRunRepo) SaveResult(ctx context.Context, result *domain.SymbolResult) error {
	if m.failSave {
		return ports.ErrQueryFailed
	}
	m.results = append(m.results, result)
	return nil
}

func (m *mockRunRepo) SaveSignals(ctx context.Context, runID, symbol string, events []domain.SignalEvent) error {
	m.signals[symbol] = events
	return nil
}

func (m *mockRunRepo) RecentRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	out := make([]*domain.Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRunRepo) ResultsForRun(ctx context.Context, runID string) ([]*domain.SymbolResult, error) {
	return m.results, nil
}

var day0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func makeSeries(symbol string, closes ...float64) *domain.PriceSeries {
	s := &domain.PriceSeries{Symbol: symbol, Interval: "1d"}
	for i, c := range closes {
		s.Bars = append(s.Bars, domain.Bar{Time: day0.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c})
	}
	return s
}

func testConfig() *config.Config {
	return &config.Config{
		Symbols:       []string{"AAPL", "MSFT", "BAD", "GONE"},
		StartDate:     day0,
		EndDate:       day0.AddDate(0, 0, 30),
		HeadlineLimit: 5,
		FetchTimeout:  5 * time.Second,
	}
}

func testAnalyzer(t *testing.T) ports.Analyzer {
	t.Helper()
	s, err := strategy.New(strategy.Config{
		ShortWindow: 2, LongWindow: 3, VolatilityWindow: 2, EMAPeriod: 2, RSIPeriod: 2, ATRPeriod: 2,
		RSIOverbought: 70, RSIOversold: 30,
	}, &mockLogger{})
	require.NoError(t, err)
	return s
}

func newTestService(t *testing.T, provider ports.MarketDataProvider, headlines ports.HeadlineSource, runs ports.RunRepository) (*DashboardService, *mockLogger) {
	t.Helper()
	logger := &mockLogger{}
	svc, err := NewDashboardService(testConfig(), logger, provider, testAnalyzer(t), headlines, runs)
	require.NoError(t, err)
	svc.newID = func() string { return "run-1" }
	svc.now = func() time.Time { return day0 }
	return svc, logger
}

func TestNewDashboardService_Validation(t *testing.T) {
	_, err := NewDashboardService(nil, &mockLogger{}, &mockProvider{}, testAnalyzer(t), nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.FetchTimeout = 0
	_, err = NewDashboardService(cfg, &mockLogger{}, &mockProvider{}, testAnalyzer(t), nil, nil)
	assert.Error(t, err)

	_, err = NewDashboardService(testConfig(), &mockLogger{}, &mockProvider{}, testAnalyzer(t), nil, nil)
	assert.NoError(t, err, "news and history are optional")
}

func TestRefresh_IsolatesSymbolFailures(t *testing.T) {
	unordered := makeSeries("BAD", 1, 2, 3)
	unordered.Bars[2].Time = unordered.Bars[0].Time

	provider := &mockProvider{series: map[string]*domain.PriceSeries{
		"AAPL": makeSeries("AAPL", 10, 9, 8, 9, 11, 13),
		"MSFT": makeSeries("MSFT", 5, 6),
		"BAD":  unordered,
	}}
	headlines := &mockHeadlines{}
	repo := newMockRunRepo()
	svc, logger := newTestService(t, provider, headlines, repo)

	res, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Reports, 2)
	assert.Equal(t, "AAPL", res.Reports[0].Symbol)
	assert.Equal(t, "MSFT", res.Reports[1].Symbol)
	assert.Equal(t, []domain.Headline{{Title: "AAPL news"}}, res.Reports[0].Headlines)
	assert.Equal(t, []string{"AAPL", "MSFT"}, headlines.requested)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, "BAD", res.Failed[0].Symbol)
	assert.Equal(t, domain.StatusSkipped, res.Failed[0].Status)
	assert.Equal(t, "GONE", res.Failed[1].Symbol)
	assert.Equal(t, domain.StatusNoData, res.Failed[1].Status)
	assert.Len(t, logger.warnMsgs, 2)

	assert.Equal(t, "run-1", res.Run.ID)
	assert.Equal(t, "mock", res.Run.Provider)
	assert.Equal(t, 2, res.Run.Succeeded)
	assert.Equal(t, 2, res.Run.Failed)

	stored := repo.runs["run-1"]
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.Succeeded)
	assert.Equal(t, 2, stored.Failed)
	assert.Len(t, repo.results, 4)
	assert.Contains(t, repo.signals, "AAPL")
}

func TestRefresh_FetchFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("network down")}
	repo := newMockRunRepo()
	svc, logger := newTestService(t, provider, nil, repo)

	res, err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrFetchFailure)
	require.NotNil(t, res)
	assert.Empty(t, res.Reports)
	assert.Len(t, res.Failed, 4)
	assert.Equal(t, domain.StatusFetchFailed, res.Failed[0].Status)
	assert.Equal(t, 4, repo.runs["run-1"].Failed)
	assert.NotEmpty(t, logger.errorMsgs)
}

func TestRefresh_IsolatesPerSymbolFetchFailures(t *testing.T) {
	provider := &mockProvider{
		series: map[string]*domain.PriceSeries{"AAPL": makeSeries("AAPL", 10, 9, 8, 9, 11, 13)},
		err: ports.SymbolErrors{
			"MSFT": fmt.Errorf("yahoo fetch MSFT: %w: %w", ports.ErrFetchFailure, ports.ErrRateLimited),
		},
	}
	repo := newMockRunRepo()
	svc, _ := newTestService(t, provider, nil, repo)

	res, err := svc.Refresh(context.Background())
	require.NoError(t, err, "one symbol failing does not fail the refresh")

	require.Len(t, res.Reports, 1)
	assert.Equal(t, "AAPL", res.Reports[0].Symbol)

	failed := map[string]*domain.SymbolResult{}
	for _, f := range res.Failed {
		failed[f.Symbol] = f
	}
	require.Contains(t, failed, "MSFT")
	assert.Equal(t, domain.StatusFetchFailed, failed["MSFT"].Status)
	assert.Contains(t, failed["MSFT"].Message, "rate limit")
	assert.Equal(t, domain.StatusNoData, failed["BAD"].Status)
	assert.Equal(t, domain.StatusNoData, failed["GONE"].Status)
	assert.Equal(t, 1, repo.runs["run-1"].Succeeded)
	assert.Equal(t, 3, repo.runs["run-1"].Failed)
}

func TestAnalyze_NormalizesSymbols(t *testing.T) {
	provider := &mockProvider{series: map[string]*domain.PriceSeries{"AAPL": makeSeries("AAPL", 1, 2, 3)}}
	svc, _ := newTestService(t, provider, nil, nil)

	res, err := svc.Analyze(context.Background(), []string{" aapl", "AAPL", ""}, day0, day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, provider.requested)
	assert.Equal(t, []string{"AAPL"}, res.Run.Symbols)
	require.Len(t, res.Reports, 1)
	assert.Empty(t, res.Failed)

	_, err = svc.Analyze(context.Background(), []string{" ", ""}, day0, day0)
	assert.ErrorIs(t, err, ports.ErrInvalidInput)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	provider := &mockProvider{}
	svc, _ := newTestService(t, provider, nil, nil)

	_, err := svc.Analyze(context.Background(), nil, day0, day0)
	assert.ErrorIs(t, err, ports.ErrInvalidInput)

	_, err = svc.Analyze(context.Background(), []string{"AAPL"}, day0, day0.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ports.ErrInvalidInput)
	assert.Zero(t, provider.calls)
}

func TestRefresh_RecordingFailuresAreNotFatal(t *testing.T) {
	provider := &mockProvider{series: map[string]*domain.PriceSeries{"AAPL": makeSeries("AAPL", 1, 2, 3)}}
	repo := newMockRunRepo()
	repo.failSave = true
	svc, logger := newTestService(t, provider, nil, repo)

	res, err := svc.Analyze(context.Background(), []string{"AAPL"}, day0, day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Len(t, res.Reports, 1)
	assert.Contains(t, logger.warnMsgs, "Failed to record symbol result")
}

func TestHistory(t *testing.T) {
	svc, _ := newTestService(t, &mockProvider{}, nil, nil)
	_, err := svc.History(context.Background(), 10)
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	repo := newMockRunRepo()
	require.NoError(t, repo.CreateRun(context.Background(), &domain.Run{ID: "x"}))
	svc, _ = newTestService(t, &mockProvider{}, nil, repo)
	runs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWatch(t *testing.T) {
	svc, _ := newTestService(t, &mockProvider{series: map[string]*domain.PriceSeries{}}, nil, nil)

	err := svc.Watch(context.Background(), "not a schedule", func(*Result, error) {})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results := make(chan *Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, "@every 1s", func(r *Result, err error) {
			assert.NoError(t, err)
			results <- r
			cancel()
		})
	}()

	select {
	case r := <-results:
		assert.Len(t, r.Failed, 4, "no series for any configured symbol")
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled refresh did not run")
	}
	require.NoError(t, <-done)
}
