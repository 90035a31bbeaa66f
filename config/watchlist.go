package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Watchlist is the optional YAML file naming the symbols to analyze.
//
//	symbols: [AAPL, MSFT]
//	start: 2022-01-01
//	end: 2024-01-01
type Watchlist struct {
	Symbols []string `yaml:"symbols"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
}

// LoadWatchlist reads and validates a watchlist file.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	wl := &Watchlist{}
	if err := yaml.Unmarshal(data, wl); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}
	wl.Symbols = ParseSymbols(strings.Join(wl.Symbols, ","))
	for _, d := range []string{wl.Start, wl.End} {
		if d == "" {
			continue
		}
		if _, err := ParseDate(d); err != nil {
			return nil, fmt.Errorf("watchlist date: %w", err)
		}
	}
	return wl, nil
}
