// Package memo remembers provider results for identical requests.
package memo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"
)

// Provider wraps a ports.MarketDataProvider and returns the previous result
// for a request it has already answered. Entries live for the process
// lifetime and are never evicted. Failed requests are not remembered.
type Provider struct {
	next   ports.MarketDataProvider
	logger ports.Logger

	mu      sync.Mutex
	results map[string]map[string]*domain.PriceSeries
	hits    int
	misses  int
}

// New wraps next.
func New(next ports.MarketDataProvider, logger ports.Logger) *Provider {
	return &Provider{
		next:    next,
		logger:  logger,
		results: make(map[string]map[string]*domain.PriceSeries),
	}
}

// Name reports the wrapped provider's name.
func (p *Provider) Name() string { return p.next.Name() }

// FetchSeries returns a remembered result when symbols and dates match.
func (p *Provider) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	key := Key(symbols, start, end)

	p.mu.Lock()
	if res, ok := p.results[key]; ok {
		p.hits++
		p.mu.Unlock()
		p.logger.Debug(ctx, "Memoized series reused", map[string]interface{}{"key": key})
		return res, nil
	}
	p.misses++
	p.mu.Unlock()

	res, err := p.next.FetchSeries(ctx, symbols, start, end)
	if err != nil {
		// Partial results are passed through but fetched again next time.
		return res, err
	}

	p.mu.Lock()
	p.results[key] = res
	p.mu.Unlock()
	return res, nil
}

// Stats returns the hit and miss counters.
func (p *Provider) Stats() (hits, misses int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hits, p.misses
}

// Key builds the memo key from the sorted symbols and the dates. Symbols are
// compared exactly, since results are keyed by the symbols as requested.
func Key(symbols []string, start, end time.Time) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + "|" + start.Format(time.DateOnly) + "|" + end.Format(time.DateOnly)
}
