package utils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"
)

// CSVProvider implements ports.MarketDataProvider over a directory of
// <SYMBOL>.csv files in the bar CSV format.
type CSVProvider struct {
	dir    string
	logger ports.Logger
}

// NewCSVProvider reads bar files from dir.
func NewCSVProvider(dir string, logger ports.Logger) *CSVProvider {
	return &CSVProvider{dir: dir, logger: logger}
}

// Name identifies the provider.
func (p *CSVProvider) Name() string { return "csv" }

// BarFile returns the file path used for symbol.
func (p *CSVProvider) BarFile(symbol string) string {
	return BarFilePath(p.dir, symbol)
}

// BarFilePath returns the conventional file path for symbol under dir.
func BarFilePath(dir, symbol string) string {
	return filepath.Join(dir, strings.ToUpper(symbol)+".csv")
}

// FetchSeries loads each symbol's file and keeps bars dated within [start, end].
// Missing files mean no data for that symbol. Unreadable files are returned as
// ports.SymbolErrors next to the series that were loaded.
func (p *CSVProvider) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	out := make(map[string]*domain.PriceSeries, len(symbols))
	failed := ports.SymbolErrors{}
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("csv fetch: %w: %w", ports.ErrFetchFailure, err)
		}
		all, err := ReadBarsFromCSV(p.BarFile(symbol))
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn(ctx, "No bar file for symbol", map[string]interface{}{"symbol": symbol, "path": p.BarFile(symbol)})
			continue
		}
		if err != nil {
			p.logger.Warn(ctx, "Bar file unreadable, skipping", map[string]interface{}{"symbol": symbol, "error": err.Error()})
			failed[symbol] = fmt.Errorf("csv fetch %s: %w: %w", symbol, ports.ErrFetchFailure, err)
			continue
		}
		s, ok := all[strings.ToUpper(symbol)]
		if !ok {
			continue
		}
		filtered := &domain.PriceSeries{Symbol: symbol, Interval: s.Interval}
		for _, b := range s.Bars {
			if b.Time.Before(start) || b.Time.After(endOfDay(end)) {
				continue
			}
			filtered.Bars = append(filtered.Bars, b)
		}
		if !filtered.IsEmpty() {
			out[symbol] = filtered
		}
	}
	return out, failed.OrNil()
}

func endOfDay(t time.Time) time.Time {
	return t.Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
}
