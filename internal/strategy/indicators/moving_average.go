package indicators

import (
	"context"
	"fmt"

	"stockDash/internal/domain"
)

// MovingAverageType defines the type of moving average
type MovingAverageType string

const (
	// SimpleMovingAverage represents a simple moving average
	SimpleMovingAverage MovingAverageType = "SMA"
	// ExponentialMovingAverageType represents an exponential moving average
	ExponentialMovingAverageType MovingAverageType = "EMA"
)

// AverageConfig holds configuration for moving average indicators
type AverageConfig struct {
	IndicatorConfig
	Type MovingAverageType
}

// Average implements both SMA and EMA indicators
type Average struct {
	BaseIndicator
	config AverageConfig
}

// NewAverage creates a new moving average indicator instance
func NewAverage(config AverageConfig) *Average {
	return &Average{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator, e.g. "SMA50".
func (a *Average) Name() string {
	return fmt.Sprintf("%s%d", a.config.Type, a.Config.Period)
}

// Series computes the moving average based on the configured type
func (a *Average) Series(ctx context.Context, series *domain.PriceSeries) (domain.DerivedSeries, error) {
	var (
		out domain.DerivedSeries
		err error
	)
	switch a.config.Type {
	case SimpleMovingAverage:
		out, err = MovingAverage(series, a.Config.Period)
	case ExponentialMovingAverageType:
		out, err = ExponentialMovingAverage(series, a.Config.Period)
	default:
		return domain.DerivedSeries{}, fmt.Errorf("unsupported moving average type: %s", a.config.Type)
	}
	if err != nil {
		return domain.DerivedSeries{}, err
	}
	out.Name = a.Name()
	return out, nil
}

// MovingAverage computes the trailing arithmetic mean of the close over the
// last window bars. The first window-1 points are absent. A window longer than
// the series is not an error: every point is absent.
func MovingAverage(series *domain.PriceSeries, window int) (domain.DerivedSeries, error) {
	if window < 1 {
		return domain.DerivedSeries{}, fmt.Errorf("moving average window %d: %w", window, ErrInvalidWindow)
	}
	closes := series.Closes()
	out := domain.NewDerivedSeries(fmt.Sprintf("SMA%d", window), series.Times())

	for i := window - 1; i < len(closes); i++ {
		total := 0.0
		for _, c := range closes[i-window+1 : i+1] {
			total += c
		}
		out.Set(i, total/float64(window))
	}
	return out, nil
}

// ExponentialMovingAverage seeds with the simple average of the first period
// closes and applies the standard 2/(period+1) smoothing afterwards.
func ExponentialMovingAverage(series *domain.PriceSeries, period int) (domain.DerivedSeries, error) {
	if period < 1 {
		return domain.DerivedSeries{}, fmt.Errorf("EMA period %d: %w", period, ErrInvalidWindow)
	}
	closes := series.Closes()
	out := domain.NewDerivedSeries(fmt.Sprintf("EMA%d", period), series.Times())
	if len(closes) < period {
		return out, nil
	}

	multiplier := 2.0 / float64(period+1)

	ema := 0.0
	for _, c := range closes[:period] {
		ema += c
	}
	ema /= float64(period)
	out.Set(period-1, ema)

	for i := period; i < len(closes); i++ {
		ema = (closes[i]-ema)*multiplier + ema
		out.Set(i, ema)
	}
	return out, nil
}
