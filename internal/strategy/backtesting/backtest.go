// Package backtesting replays crossover signals over the price history they
// were derived from.
package backtesting

import (
	"fmt"
	"time"

	"stockDash/internal/domain"
)

// Result holds the outcome of a crossover replay.
type Result struct {
	Trades        []domain.Trade
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // Over closed and open trades
	TotalReturn   float64 // Compounded over all trades
	MaxDrawdown   float64 // Of the compounded equity after each trade
	AverageWin    float64
	AverageLoss   float64
}

// Replay goes long at the close of every golden cross and exits at the close
// of the following death cross. A position still held at the end of the
// series is marked to the last close and flagged Open.
// Every event time must match a bar of series.
func Replay(series *domain.PriceSeries, crosses []domain.SignalEvent) (*Result, error) {
	result := &Result{}
	if series.IsEmpty() {
		return result, nil
	}

	closes := make(map[time.Time]float64, series.Len())
	for _, b := range series.Bars {
		closes[b.Time] = b.Close
	}

	var current *domain.Trade
	for _, c := range crosses {
		price, ok := closes[c.Time]
		if !ok {
			return nil, fmt.Errorf("signal at %s has no matching bar", c.Time.Format(time.RFC3339))
		}
		switch {
		case c.Kind == domain.GoldenCross && current == nil:
			current = &domain.Trade{EntryTime: c.Time, EntryPrice: price}
		case c.Kind == domain.DeathCross && current != nil:
			result.Trades = append(result.Trades, closeTrade(*current, c.Time, price, false))
			current = nil
		}
	}
	if current != nil {
		last := series.Bars[series.Len()-1]
		result.Trades = append(result.Trades, closeTrade(*current, last.Time, last.Close, true))
	}

	equity, peak := 1.0, 1.0
	for _, t := range result.Trades {
		// Update trade statistics
		if t.Return > 0 {
			result.WinningTrades++
			result.AverageWin = (result.AverageWin*float64(result.WinningTrades-1) + t.Return) / float64(result.WinningTrades)
		} else {
			result.LosingTrades++
			result.AverageLoss = (result.AverageLoss*float64(result.LosingTrades-1) + t.Return) / float64(result.LosingTrades)
		}

		// Update max drawdown
		equity *= 1 + t.Return
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > result.MaxDrawdown {
			result.MaxDrawdown = dd
		}
	}
	if n := len(result.Trades); n > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(n)
	}
	result.TotalReturn = equity - 1
	return result, nil
}

func closeTrade(t domain.Trade, at time.Time, price float64, open bool) domain.Trade {
	t.ExitTime = at
	t.ExitPrice = price
	t.Open = open
	if t.EntryPrice != 0 {
		t.Return = (price - t.EntryPrice) / t.EntryPrice
	}
	return t
}
