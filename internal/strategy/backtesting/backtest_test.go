package backtesting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockDash/internal/domain"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func day(i int) time.Time { return t0.AddDate(0, 0, i) }

func testSeries(closes ...float64) *domain.PriceSeries {
	s := &domain.PriceSeries{Symbol: "TEST", Interval: "1d"}
	for i, c := range closes {
		s.Bars = append(s.Bars, domain.Bar{Time: day(i), Close: c})
	}
	return s
}

func TestReplay(t *testing.T) {
	series := testSeries(100, 100, 110, 121, 99, 90, 100, 120)

	tests := []struct {
		name          string
		crosses       []domain.SignalEvent
		expectedTrade []domain.Trade
		winRate       float64
		totalReturn   float64
		maxDrawdown   float64
	}{
		{
			name:          "No signals",
			crosses:       nil,
			expectedTrade: nil,
		},
		{
			name: "Death cross without a position is ignored",
			crosses: []domain.SignalEvent{
				{Time: day(1), Kind: domain.DeathCross},
			},
			expectedTrade: nil,
		},
		{
			name: "Closed winner then open position",
			crosses: []domain.SignalEvent{
				{Time: day(1), Kind: domain.GoldenCross},
				{Time: day(3), Kind: domain.DeathCross},
				{Time: day(5), Kind: domain.GoldenCross},
			},
			expectedTrade: []domain.Trade{
				{EntryTime: day(1), EntryPrice: 100, ExitTime: day(3), ExitPrice: 121, Return: 0.21},
				{EntryTime: day(5), EntryPrice: 90, ExitTime: day(7), ExitPrice: 120, Return: 1.0 / 3, Open: true},
			},
			winRate:     1,
			totalReturn: 1.21*(4.0/3) - 1,
		},
		{
			name: "Loser after winner sets drawdown",
			crosses: []domain.SignalEvent{
				{Time: day(1), Kind: domain.GoldenCross},
				{Time: day(2), Kind: domain.GoldenCross}, // Already long
				{Time: day(3), Kind: domain.DeathCross},
				{Time: day(3), Kind: domain.GoldenCross},
				{Time: day(5), Kind: domain.DeathCross},
			},
			expectedTrade: []domain.Trade{
				{EntryTime: day(1), EntryPrice: 100, ExitTime: day(3), ExitPrice: 121, Return: 0.21},
				{EntryTime: day(3), EntryPrice: 121, ExitTime: day(5), ExitPrice: 90, Return: (90.0 - 121) / 121},
			},
			winRate:     0.5,
			totalReturn: -0.10,
			maxDrawdown: 31.0 / 121,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Replay(series, tt.crosses)
			require.NoError(t, err)
			require.Len(t, res.Trades, len(tt.expectedTrade))
			for i, want := range tt.expectedTrade {
				got := res.Trades[i]
				assert.Equal(t, want.EntryTime, got.EntryTime)
				assert.Equal(t, want.ExitTime, got.ExitTime)
				assert.Equal(t, want.EntryPrice, got.EntryPrice)
				assert.Equal(t, want.ExitPrice, got.ExitPrice)
				assert.InDelta(t, want.Return, got.Return, 1e-9)
				assert.Equal(t, want.Open, got.Open)
			}
			assert.InDelta(t, tt.winRate, res.WinRate, 1e-9)
			assert.InDelta(t, tt.maxDrawdown, res.MaxDrawdown, 1e-9)
			assert.InDelta(t, tt.totalReturn, res.TotalReturn, 1e-9)
		})
	}
}

func TestReplay_Statistics(t *testing.T) {
	series := testSeries(100, 100, 110, 121, 99, 90, 100, 120)
	res, err := Replay(series, []domain.SignalEvent{
		{Time: day(1), Kind: domain.GoldenCross},
		{Time: day(3), Kind: domain.DeathCross},
		{Time: day(3), Kind: domain.GoldenCross},
		{Time: day(5), Kind: domain.DeathCross},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.WinningTrades)
	assert.Equal(t, 1, res.LosingTrades)
	assert.InDelta(t, 0.21, res.AverageWin, 1e-9)
	assert.InDelta(t, -31.0/121, res.AverageLoss, 1e-9)
	// 100 -> 121 -> 90
	assert.InDelta(t, -0.10, res.TotalReturn, 1e-9)
}

func TestReplay_Errors(t *testing.T) {
	res, err := Replay(&domain.PriceSeries{}, []domain.SignalEvent{{Time: day(0), Kind: domain.GoldenCross}})
	require.NoError(t, err)
	assert.Empty(t, res.Trades)

	_, err = Replay(testSeries(1, 2), []domain.SignalEvent{{Time: day(9), Kind: domain.GoldenCross}})
	assert.Error(t, err)
}
