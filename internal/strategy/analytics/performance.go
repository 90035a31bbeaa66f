package analytics

import (
	"math"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/strategy/indicators"
)

// TradingDaysPerYear scales daily volatility to an annual figure.
const TradingDaysPerYear = 252

// Drawdown represents a peak-to-trough decline of the close
type Drawdown struct {
	StartTime  time.Time // Time of the peak
	EndTime    time.Time // Time the close recovered to the peak, or the last bar if it never did
	StartValue float64
	Trough     float64
	Depth      float64 // (peak - trough) / peak
	Duration   time.Duration
	Recovered  bool
}

// Summarize fills the latest-value and whole-period statistics of a report.
// The report's derived series must already be computed from series.
func Summarize(series *domain.PriceSeries, report *domain.TrendReport) domain.Summary {
	var s domain.Summary
	last, ok := series.Last()
	if !ok {
		s.Trend = domain.TrendUnknown
		return s
	}
	lastIdx := series.Len() - 1

	s.LastClose = last.Close
	s.LastTime = last.Time
	s.ShortMA = pointAt(report.ShortMA, lastIdx)
	s.LongMA = pointAt(report.LongMA, lastIdx)
	s.Volatility = pointAt(report.Volatility, lastIdx)
	s.PercentChange = pointAt(report.PercentChange, lastIdx)
	s.RSI = pointAt(report.RSI, lastIdx)
	s.Trend = TrendOf(s.ShortMA, s.LongMA)

	for _, c := range report.Crosses {
		if c.Kind == domain.GoldenCross && c.Time.Equal(last.Time) {
			s.BuySignal = true
		}
	}

	s.TotalReturn = TotalReturn(series)
	for _, dd := range Drawdowns(series) {
		if dd.Depth > s.MaxDrawdown {
			s.MaxDrawdown = dd.Depth
		}
	}
	s.AnnualVolatility = indicators.StdDev(report.PercentChange.Values()) * math.Sqrt(TradingDaysPerYear)
	return s
}

// TrendOf labels the relationship between a short and a long average.
func TrendOf(short, long domain.Point) domain.Trend {
	if !short.Valid || !long.Valid {
		return domain.TrendUnknown
	}
	switch {
	case short.Value > long.Value:
		return domain.TrendBullish
	case short.Value < long.Value:
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

// TotalReturn is the fractional change from the first to the last close.
func TotalReturn(series *domain.PriceSeries) float64 {
	if series.Len() < 2 || series.Bars[0].Close == 0 {
		return 0
	}
	first := series.Bars[0].Close
	last := series.Bars[series.Len()-1].Close
	return (last - first) / first
}

// Drawdowns lists every decline from a running peak of the close.
func Drawdowns(series *domain.PriceSeries) []Drawdown {
	var (
		drawdowns []Drawdown
		current   *Drawdown
	)
	if series.IsEmpty() {
		return drawdowns
	}

	peak := series.Bars[0].Close
	peakTime := series.Bars[0].Time

	for _, bar := range series.Bars[1:] {
		if bar.Close >= peak {
			if current != nil {
				current.EndTime = bar.Time
				current.Duration = current.EndTime.Sub(current.StartTime)
				current.Recovered = true
				drawdowns = append(drawdowns, *current)
				current = nil
			}
			peak = bar.Close
			peakTime = bar.Time
			continue
		}
		if peak <= 0 {
			continue
		}

		depth := (peak - bar.Close) / peak
		if current == nil {
			current = &Drawdown{StartTime: peakTime, StartValue: peak, Trough: bar.Close, Depth: depth}
		} else if depth > current.Depth {
			current.Depth = depth
			current.Trough = bar.Close
		}
	}

	// Close any open drawdown
	if current != nil {
		last := series.Bars[series.Len()-1]
		current.EndTime = last.Time
		current.Duration = current.EndTime.Sub(current.StartTime)
		drawdowns = append(drawdowns, *current)
	}
	return drawdowns
}

func pointAt(d domain.DerivedSeries, i int) domain.Point {
	if i < 0 || i >= d.Len() {
		return domain.Point{}
	}
	return d.Points[i]
}
