package domain

import "time"

// SignalKind identifies which way a fast average crossed a slow one.
type SignalKind string

const (
	// GoldenCross: fast average moved from at-or-below to strictly above the slow one.
	GoldenCross SignalKind = "GOLDEN_CROSS"
	// DeathCross: fast average moved from at-or-above to strictly below the slow one.
	DeathCross SignalKind = "DEATH_CROSS"
)

// SignalEvent is a crossover observed at Time.
type SignalEvent struct {
	Time time.Time
	Kind SignalKind
	Fast float64 // Fast average at Time
	Slow float64 // Slow average at Time
}

// Trend labels the relationship between the latest short and long averages.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
	TrendUnknown Trend = "UNKNOWN" // Not enough data for both averages
)
