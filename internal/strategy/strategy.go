package strategy

import (
	"context"
	"fmt"

	"stockDash/internal/domain"
	"stockDash/internal/ports"
	"stockDash/internal/strategy/analytics"
	"stockDash/internal/strategy/backtesting"
	"stockDash/internal/strategy/indicators"
)

// Config holds the windows used by the trend analysis.
type Config struct {
	ShortWindow      int     // e.g., 50
	LongWindow       int     // e.g., 200
	VolatilityWindow int     // e.g., 20
	EMAPeriod        int     // e.g., 20
	RSIPeriod        int     // e.g., 14
	ATRPeriod        int     // e.g., 14
	RSIOverbought    float64 // e.g., 70.0
	RSIOversold      float64 // e.g., 30.0
}

// DefaultConfig mirrors the classic 50/200-day setup.
func DefaultConfig() Config {
	return Config{
		ShortWindow:      50,
		LongWindow:       200,
		VolatilityWindow: 20,
		EMAPeriod:        20,
		RSIPeriod:        14,
		ATRPeriod:        14,
		RSIOverbought:    70,
		RSIOversold:      30,
	}
}

// Strategy computes trend reports from price history.
type Strategy struct {
	cfg    Config
	logger ports.Logger

	shortMA    indicators.Indicator
	longMA     indicators.Indicator
	volatility indicators.Indicator
	ema        indicators.Indicator
	rsi        indicators.Indicator
	atr        indicators.Indicator
}

// New creates a new Strategy instance.
func New(cfg Config, logger ports.Logger) (*Strategy, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if cfg.ShortWindow <= 0 || cfg.LongWindow <= 0 || cfg.EMAPeriod <= 0 || cfg.RSIPeriod <= 0 || cfg.ATRPeriod <= 0 {
		return nil, fmt.Errorf("strategy windows must be positive")
	}
	if cfg.ShortWindow >= cfg.LongWindow {
		return nil, fmt.Errorf("short moving average window must be less than long window")
	}
	if cfg.VolatilityWindow < 1 {
		return nil, fmt.Errorf("volatility window must be positive")
	}
	return &Strategy{
		cfg:    cfg,
		logger: logger,
		shortMA: indicators.NewAverage(indicators.AverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ShortWindow},
			Type:            indicators.SimpleMovingAverage,
		}),
		longMA: indicators.NewAverage(indicators.AverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.LongWindow},
			Type:            indicators.SimpleMovingAverage,
		}),
		volatility: indicators.NewVolatility(indicators.IndicatorConfig{Period: cfg.VolatilityWindow}),
		ema: indicators.NewAverage(indicators.AverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.EMAPeriod},
			Type:            indicators.ExponentialMovingAverageType,
		}),
		rsi: indicators.NewRSI(indicators.RSIConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.RSIPeriod},
			Overbought:      cfg.RSIOverbought,
			Oversold:        cfg.RSIOversold,
		}),
		atr: indicators.NewATR(indicators.IndicatorConfig{Period: cfg.ATRPeriod}),
	}, nil
}

// RequiredDataPoints returns the number of bars after which the long average is defined.
func (s *Strategy) RequiredDataPoints() int {
	return s.cfg.LongWindow
}

// Analyze computes every derived series for the given history. Short series
// are not an error: values that need more bars are simply absent.
func (s *Strategy) Analyze(ctx context.Context, series *domain.PriceSeries) (*domain.TrendReport, error) {
	if series == nil || series.IsEmpty() {
		return nil, fmt.Errorf("analyze: %w", ports.ErrNoData)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w: %w", series.Symbol, ports.ErrComputationSkipped, err)
	}
	if series.Len() < s.RequiredDataPoints() {
		s.logger.Debug(ctx, "Series shorter than long window, long average will be absent",
			map[string]interface{}{"symbol": series.Symbol, "available": series.Len(), "required": s.RequiredDataPoints()})
	}

	report := &domain.TrendReport{Symbol: series.Symbol, Bars: series.Len()}

	steps := []struct {
		ind indicators.Indicator
		dst *domain.DerivedSeries
	}{
		{s.shortMA, &report.ShortMA},
		{s.longMA, &report.LongMA},
		{s.volatility, &report.Volatility},
		{s.ema, &report.EMA},
		{s.rsi, &report.RSI},
		{s.atr, &report.ATR},
	}
	for _, step := range steps {
		out, err := step.ind.Series(ctx, series)
		if err != nil {
			s.logger.Error(ctx, err, "Failed to calculate indicator",
				map[string]interface{}{"symbol": series.Symbol, "indicator": step.ind.Name()})
			return nil, fmt.Errorf("analyze %s: %s: %w: %w", series.Symbol, step.ind.Name(), ports.ErrComputationSkipped, err)
		}
		*step.dst = out
	}
	report.PercentChange = indicators.PercentChange(series)

	crosses, err := s.crosses(report.ShortMA, report.LongMA)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to detect crossovers", map[string]interface{}{"symbol": series.Symbol})
		return nil, fmt.Errorf("analyze %s: crossovers: %w: %w", series.Symbol, ports.ErrComputationSkipped, err)
	}
	report.Crosses = crosses

	replay, err := backtesting.Replay(series, crosses)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to replay crossovers", map[string]interface{}{"symbol": series.Symbol})
		return nil, fmt.Errorf("analyze %s: replay: %w: %w", series.Symbol, ports.ErrComputationSkipped, err)
	}
	report.Trades = replay.Trades

	report.Summary = analytics.Summarize(series, report)
	report.Summary.SignalReturn = replay.TotalReturn
	report.Summary.SignalTrades = len(replay.Trades)

	s.logger.Debug(ctx, "Trend report computed", map[string]interface{}{
		"symbol":  series.Symbol,
		"bars":    series.Len(),
		"trend":   report.Summary.Trend,
		"crosses": len(crosses),
	})
	return report, nil
}

// crosses merges golden and death crosses into one time-ordered slice.
func (s *Strategy) crosses(fast, slow domain.DerivedSeries) ([]domain.SignalEvent, error) {
	golden, err := indicators.DetectGoldenCross(fast, slow)
	if err != nil {
		return nil, err
	}
	death, err := indicators.DetectDeathCross(fast, slow)
	if err != nil {
		return nil, err
	}

	var merged []domain.SignalEvent
	g, gok := golden.Next()
	d, dok := death.Next()
	for gok || dok {
		if gok && (!dok || g.Time.Before(d.Time)) {
			merged = append(merged, g)
			g, gok = golden.Next()
			continue
		}
		merged = append(merged, d)
		d, dok = death.Next()
	}
	return merged, nil
}
