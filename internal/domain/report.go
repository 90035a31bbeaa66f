package domain

import "time"

// Summary holds the latest values and whole-period statistics of a report.
type Summary struct {
	LastClose        float64
	LastTime         time.Time
	ShortMA          Point
	LongMA           Point
	Volatility       Point
	PercentChange    Point
	RSI              Point
	Trend            Trend
	BuySignal        bool    // Golden cross on the most recent bar
	TotalReturn      float64 // (last close - first close) / first close
	MaxDrawdown      float64 // Largest peak-to-trough decline of the close, as a fraction
	AnnualVolatility float64 // Stddev of daily returns scaled by sqrt(252)
	SignalReturn     float64 // Compounded return of the crossover replay
	SignalTrades     int
}

// TrendReport bundles every derived series computed for one symbol.
type TrendReport struct {
	Symbol        string
	Bars          int
	ShortMA       DerivedSeries
	LongMA        DerivedSeries
	Volatility    DerivedSeries
	PercentChange DerivedSeries
	EMA           DerivedSeries
	RSI           DerivedSeries
	ATR           DerivedSeries
	Crosses       []SignalEvent // Golden and death crosses in time order
	Trades        []Trade       // Crossover replay
	Summary       Summary
	Headlines     []Headline
}

// GoldenCrosses filters the report's crosses down to buy signals.
func (r *TrendReport) GoldenCrosses() []SignalEvent {
	var out []SignalEvent
	for _, c := range r.Crosses {
		if c.Kind == GoldenCross {
			out = append(out, c)
		}
	}
	return out
}
