package indicators

import (
	"context"
	"fmt"
	"math"

	"stockDash/internal/domain"
)

// Volatility implements the rolling sample standard deviation of the close.
type Volatility struct {
	BaseIndicator
}

// NewVolatility creates a rolling volatility indicator over the given window.
func NewVolatility(config IndicatorConfig) *Volatility {
	return &Volatility{BaseIndicator: BaseIndicator{Config: config}}
}

// Name returns the name of the indicator
func (v *Volatility) Name() string {
	return fmt.Sprintf("VOL%d", v.Config.Period)
}

// Series computes the rolling volatility for every bar.
func (v *Volatility) Series(ctx context.Context, series *domain.PriceSeries) (domain.DerivedSeries, error) {
	return RollingVolatility(series, v.Config.Period)
}

// RollingVolatility computes the trailing sample standard deviation (n-1
// denominator) of the close over the last window bars. The first window-1
// points are absent. A one-bar sample deviation is undefined, so window 1
// yields an all-absent series.
func RollingVolatility(series *domain.PriceSeries, window int) (domain.DerivedSeries, error) {
	if window < 1 {
		return domain.DerivedSeries{}, fmt.Errorf("volatility window %d: %w", window, ErrInvalidWindow)
	}
	closes := series.Closes()
	out := domain.NewDerivedSeries(fmt.Sprintf("VOL%d", window), series.Times())
	if window == 1 {
		return out, nil
	}

	for i := window - 1; i < len(closes); i++ {
		out.Set(i, sampleStdDev(closes[i-window+1:i+1]))
	}
	return out, nil
}

// sampleStdDev returns the n-1 standard deviation of values (len >= 2).
func sampleStdDev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// StdDev is the sample standard deviation of values; 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return sampleStdDev(values)
}
