package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"stockDash/internal/domain"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.AlignRight)
}

// Dashboard prints one summary row per analyzed symbol followed by the
// symbols that could not be analyzed.
func Dashboard(w io.Writer, reports []*domain.TrendReport, failed []*domain.SymbolResult, shortWindow, longWindow int) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Symbol\tDate\tClose\tMA%d\tMA%d\tVol\tChange\tRSI\tTrend\tBuy\tReturn\tMaxDD\t\n", shortWindow, longWindow)
	for _, r := range reports {
		s := r.Summary
		buy := "no"
		if s.BuySignal {
			buy = "YES"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Symbol,
			date(s.LastTime),
			Price(s.LastClose),
			PricePoint(s.ShortMA),
			PricePoint(s.LongMA),
			PricePoint(s.Volatility),
			PercentPoint(s.PercentChange),
			PricePoint(s.RSI),
			s.Trend,
			buy,
			Percent(s.TotalReturn),
			Percent(s.MaxDrawdown),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range failed {
		if _, err := fmt.Fprintf(w, "! %s %s: %s\n", f.Symbol, f.Status, f.Message); err != nil {
			return err
		}
	}
	return nil
}

// Signals lists the crossovers of a report, most recent last.
func Signals(w io.Writer, report *domain.TrendReport) error {
	if len(report.Crosses) == 0 {
		_, err := fmt.Fprintf(w, "%s: no crossovers\n", report.Symbol)
		return err
	}
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "%s\tDate\tSignal\tFast\tSlow\t\n", report.Symbol)
	for _, c := range report.Crosses {
		fmt.Fprintf(tw, "\t%s\t%s\t%s\t%s\t\n", date(c.Time), c.Kind, Price(c.Fast), Price(c.Slow))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Crossover replay: %d trade(s), return %s\n", report.Summary.SignalTrades, Percent(report.Summary.SignalReturn))
	return err
}

// Headlines lists the news items attached to a report.
func Headlines(w io.Writer, report *domain.TrendReport) error {
	if len(report.Headlines) == 0 {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "News for %s:\n", report.Symbol)
	for _, h := range report.Headlines {
		fmt.Fprintf(&sb, "  * %s", h.Title)
		if h.Source != "" {
			fmt.Fprintf(&sb, " (%s)", h.Source)
		}
		if h.Link != "" {
			fmt.Fprintf(&sb, "\n    %s", h.Link)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Table prints the raw series with any derived columns aligned by row.
func Table(w io.Writer, series *domain.PriceSeries, derived ...domain.DerivedSeries) error {
	for _, d := range derived {
		if d.Len() != series.Len() {
			return fmt.Errorf("column %s has %d rows, series has %d", d.Name, d.Len(), series.Len())
		}
	}
	tw := newTabWriter(w)
	header := []string{"Date", "Price"}
	for _, d := range derived {
		header = append(header, d.Name)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for i, b := range series.Bars {
		row := []string{date(b.Time), Price(b.Close)}
		for _, d := range derived {
			row = append(row, PricePoint(d.Points[i]))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

// History prints stored runs, newest first.
func History(w io.Writer, runs []*domain.Run) error {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "Run\tStarted\tProvider\tSymbols\tRange\tOK\tFailed\t")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s..%s\t%d\t%d\t\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Provider,
			strings.Join(r.Symbols, ","),
			date(r.Start), date(r.End),
			r.Succeeded, r.Failed,
		)
	}
	return tw.Flush()
}

func date(t time.Time) string {
	if t.IsZero() {
		return Absent
	}
	return t.Format(time.DateOnly)
}
