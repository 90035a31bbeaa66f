package domain

import (
	"fmt"
	"time"
)

// Bar represents a single daily price observation.
type Bar struct {
	Time   time.Time // Start of the trading day (or interval)
	Open   float64   // Opening price
	High   float64   // Highest price
	Low    float64   // Lowest price
	Close  float64   // Closing price
	Volume float64   // Traded volume, 0 when the source does not report it
}

// PriceSeries is the time-ordered bar history for one symbol.
// Once returned by a provider it is treated as read-only.
type PriceSeries struct {
	Symbol   string
	Interval string // e.g. "1d"
	Bars     []Bar
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// IsEmpty reports whether the series carries no observations.
func (s *PriceSeries) IsEmpty() bool {
	return s.Len() == 0
}

// Closes extracts the closing prices in series order. A nil series has none.
func (s *PriceSeries) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, s.Len())
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Times extracts the bar timestamps in series order. A nil series has none.
func (s *PriceSeries) Times() []time.Time {
	if s == nil {
		return nil
	}
	times := make([]time.Time, s.Len())
	for i, b := range s.Bars {
		times[i] = b.Time
	}
	return times
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *PriceSeries) Last() (Bar, bool) {
	if s.IsEmpty() {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Validate checks that timestamps are strictly increasing.
func (s *PriceSeries) Validate() error {
	for i := 1; i < s.Len(); i++ {
		if !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("series %s: bar %d at %s is not after bar %d at %s",
				s.Symbol, i, s.Bars[i].Time.Format(time.RFC3339), i-1, s.Bars[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}
