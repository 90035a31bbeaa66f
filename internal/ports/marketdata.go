package ports

import (
	"context"
	"time"

	"stockDash/internal/domain"
)

// MarketDataProvider supplies daily price history.
// This abstraction decouples the analysis from any specific vendor API.
type MarketDataProvider interface {
	// Name identifies the provider in logs and run history (e.g. "yahoo").
	Name() string

	// FetchSeries retrieves daily bars for each symbol between start and end (inclusive).
	// Symbols with no data are left out of the returned map rather than failing the call.
	// Symbols that failed on their own are also left out and reported in a SymbolErrors
	// returned alongside the series that were fetched. Any other error means the request
	// as a whole failed; it wraps ErrFetchFailure.
	FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error)
}

// HeadlineSource looks up recent news for a symbol.
type HeadlineSource interface {
	// Headlines returns at most limit items, newest first. Failures yield an
	// empty slice; they are never reported as errors.
	Headlines(ctx context.Context, symbol string, limit int) []domain.Headline
}
