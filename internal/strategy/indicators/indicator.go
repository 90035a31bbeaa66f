package indicators

import (
	"context"
	"errors"

	"stockDash/internal/domain"
)

var (
	// ErrInvalidWindow is returned when a rolling window or period is too small.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrMisalignedSeries is returned when two derived series do not share timestamps.
	ErrMisalignedSeries = errors.New("derived series are not aligned")
)

// Indicator represents a technical indicator that can be calculated from price data
type Indicator interface {
	// Series computes the indicator for every bar of the price data.
	// Bars for which the indicator is not yet defined are marked absent.
	Series(ctx context.Context, series *domain.PriceSeries) (domain.DerivedSeries, error)

	// RequiredDataPoints returns the minimum number of bars needed for the last value to be defined
	RequiredDataPoints() int

	// Name returns the name of the indicator
	Name() string
}

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of bars needed for calculation
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
