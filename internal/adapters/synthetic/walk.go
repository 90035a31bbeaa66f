// Package synthetic generates random-walk price series for demos and offline runs.
package synthetic

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"
)

const (
	// BasePrice is added to the cumulative walk.
	BasePrice = 100.0

	MinPoints     = 10
	MaxPoints     = 200
	DefaultPoints = 50
)

// DemoStart is the first date of the demo series.
var DemoStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// RandomWalk returns n daily bars starting at start whose closes are the
// cumulative sum of standard normal draws plus BasePrice.
func RandomWalk(symbol string, start time.Time, n int, rng *rand.Rand) *domain.PriceSeries {
	series := &domain.PriceSeries{Symbol: symbol, Interval: "1d", Bars: make([]domain.Bar, 0, max(n, 0))}
	level := 0.0
	prev := BasePrice
	for i := 0; i < n; i++ {
		level += rng.NormFloat64()
		price := level + BasePrice
		series.Bars = append(series.Bars, domain.Bar{
			Time:  start.AddDate(0, 0, i),
			Open:  prev,
			High:  max(prev, price),
			Low:   min(prev, price),
			Close: price,
		})
		prev = price
	}
	return series
}

// ValidatePoints checks the demo's point count.
func ValidatePoints(n int) error {
	if n < MinPoints || n > MaxPoints {
		return fmt.Errorf("number of points %d outside [%d, %d]: %w", n, MinPoints, MaxPoints, ports.ErrInvalidInput)
	}
	return nil
}

// Provider implements ports.MarketDataProvider with a reproducible random walk per symbol.
type Provider struct {
	seed uint64
}

// NewProvider creates a provider. The same seed and symbol always yield the same series.
func NewProvider(seed uint64) *Provider {
	return &Provider{seed: seed}
}

// Name identifies the provider.
func (p *Provider) Name() string { return "synthetic" }

// FetchSeries generates one bar per calendar day in [start, end].
func (p *Provider) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("synthetic fetch: %w: %w", ports.ErrFetchFailure, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("synthetic fetch: end %s before start %s: %w: %w",
			end.Format(time.DateOnly), start.Format(time.DateOnly), ports.ErrFetchFailure, ports.ErrInvalidRequest)
	}
	days := int(end.Sub(start).Hours()/24) + 1

	out := make(map[string]*domain.PriceSeries, len(symbols))
	for _, symbol := range symbols {
		out[symbol] = RandomWalk(symbol, start, days, rand.New(rand.NewPCG(p.seed, symbolHash(symbol))))
	}
	return out, nil
}

func symbolHash(symbol string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return h.Sum64()
}
