package ports

import (
	"context"

	"stockDash/internal/domain"
)

// Analyzer turns a price series into a trend report.
type Analyzer interface {
	// RequiredDataPoints returns the number of bars needed for every derived series to have a value.
	RequiredDataPoints() int

	// Analyze computes all derived series for the given price history.
	// A computation failure is returned wrapped in ErrComputationSkipped.
	Analyze(ctx context.Context, series *domain.PriceSeries) (*domain.TrendReport, error)
}
