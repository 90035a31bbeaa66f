package indicators

import (
	"context"
	"fmt"
	"math"

	"stockDash/internal/domain"
)

// ATR implements the Average True Range indicator
type ATR struct {
	BaseIndicator
}

// NewATR creates a new Average True Range indicator instance
func NewATR(config IndicatorConfig) *ATR {
	return &ATR{BaseIndicator: BaseIndicator{Config: config}}
}

// Name returns the name of the indicator
func (a *ATR) Name() string {
	return "ATR"
}

// Series computes the Average True Range for every bar
func (a *ATR) Series(ctx context.Context, series *domain.PriceSeries) (domain.DerivedSeries, error) {
	return AverageTrueRange(series, a.Config.Period)
}

// AverageTrueRange seeds with the mean of the first period true ranges and
// applies Wilder's smoothing afterwards. The first defined value is at index period-1.
func AverageTrueRange(series *domain.PriceSeries, period int) (domain.DerivedSeries, error) {
	if period < 1 {
		return domain.DerivedSeries{}, fmt.Errorf("ATR period %d: %w", period, ErrInvalidWindow)
	}
	out := domain.NewDerivedSeries("ATR", series.Times())
	if series.Len() < period {
		return out, nil
	}
	bars := series.Bars

	// True Range is the greatest of:
	// 1. Current High - Current Low
	// 2. |Current High - Previous Close|
	// 3. |Current Low - Previous Close|
	trueRanges := make([]float64, len(bars))
	trueRanges[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		tr1 := bars[i].High - bars[i].Low
		tr2 := math.Abs(bars[i].High - prevClose)
		tr3 := math.Abs(bars[i].Low - prevClose)
		trueRanges[i] = math.Max(tr1, math.Max(tr2, tr3))
	}

	atr := 0.0
	for _, tr := range trueRanges[:period] {
		atr += tr
	}
	atr /= float64(period)
	out.Set(period-1, atr)

	for i := period; i < len(bars); i++ {
		atr = (atr*float64(period-1) + trueRanges[i]) / float64(period)
		out.Set(i, atr)
	}
	return out, nil
}
