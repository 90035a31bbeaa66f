package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/tidwall/pretty"

	"stockDash/internal/domain"
)

// ReportCSV writes one row per bar with every derived column. Absent values
// are empty cells.
func ReportCSV(w io.Writer, series *domain.PriceSeries, report *domain.TrendReport) error {
	columns := reportColumns(report)
	for _, c := range columns {
		if c.Len() != series.Len() {
			return fmt.Errorf("column %s has %d rows, series has %d", c.Name, c.Len(), series.Len())
		}
	}

	writer := csv.NewWriter(w)
	header := []string{"time", "symbol", "close"}
	for _, c := range columns {
		header = append(header, c.Name)
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, b := range series.Bars {
		row := []string{b.Time.UTC().Format(time.RFC3339), series.Symbol, strconv.FormatFloat(b.Close, 'f', -1, 64)}
		for _, c := range columns {
			p := c.Points[i]
			if p.Valid {
				row = append(row, strconv.FormatFloat(p.Value, 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func reportColumns(r *domain.TrendReport) []domain.DerivedSeries {
	return []domain.DerivedSeries{r.ShortMA, r.LongMA, r.Volatility, r.PercentChange, r.EMA, r.RSI, r.ATR}
}

// reportView is the JSON shape of a report. Absent values are null.
type reportView struct {
	Symbol           string         `json:"symbol"`
	Bars             int            `json:"bars"`
	LastTime         string         `json:"last_time,omitempty"`
	LastClose        float64        `json:"last_close"`
	ShortMA          *float64       `json:"short_ma"`
	LongMA           *float64       `json:"long_ma"`
	Volatility       *float64       `json:"volatility"`
	PercentChange    *float64       `json:"pct_change"`
	RSI              *float64       `json:"rsi"`
	Trend            domain.Trend   `json:"trend"`
	BuySignal        bool           `json:"buy_signal"`
	TotalReturn      float64        `json:"total_return"`
	MaxDrawdown      float64        `json:"max_drawdown"`
	AnnualVolatility float64        `json:"annual_volatility"`
	SignalReturn     float64        `json:"signal_return"`
	SignalTrades     int            `json:"signal_trades"`
	Crosses          []crossView    `json:"crosses"`
	Headlines        []headlineView `json:"headlines,omitempty"`
}

type crossView struct {
	Date string            `json:"date"`
	Kind domain.SignalKind `json:"kind"`
	Fast float64           `json:"fast"`
	Slow float64           `json:"slow"`
}

type headlineView struct {
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
	Source string `json:"source,omitempty"`
}

// JSON writes the reports as indented JSON.
func JSON(w io.Writer, reports []*domain.TrendReport) error {
	views := make([]reportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, toView(r))
	}
	data, err := json.Marshal(views)
	if err != nil {
		return err
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func toView(r *domain.TrendReport) reportView {
	s := r.Summary
	v := reportView{
		Symbol:           r.Symbol,
		Bars:             r.Bars,
		LastClose:        s.LastClose,
		ShortMA:          optional(s.ShortMA),
		LongMA:           optional(s.LongMA),
		Volatility:       optional(s.Volatility),
		PercentChange:    optional(s.PercentChange),
		RSI:              optional(s.RSI),
		Trend:            s.Trend,
		BuySignal:        s.BuySignal,
		TotalReturn:      s.TotalReturn,
		MaxDrawdown:      s.MaxDrawdown,
		AnnualVolatility: s.AnnualVolatility,
		SignalReturn:     s.SignalReturn,
		SignalTrades:     s.SignalTrades,
		Crosses:          make([]crossView, 0, len(r.Crosses)),
	}
	if !s.LastTime.IsZero() {
		v.LastTime = s.LastTime.Format(time.DateOnly)
	}
	for _, c := range r.Crosses {
		v.Crosses = append(v.Crosses, crossView{Date: c.Time.Format(time.DateOnly), Kind: c.Kind, Fast: c.Fast, Slow: c.Slow})
	}
	for _, h := range r.Headlines {
		v.Headlines = append(v.Headlines, headlineView{Title: h.Title, Link: h.Link, Source: h.Source})
	}
	return v
}

func optional(p domain.Point) *float64 {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}
