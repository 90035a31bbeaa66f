package indicators

import "stockDash/internal/domain"

// PercentChange computes (close[t] - close[t-1]) / close[t-1] as a fraction.
// The first point is absent, as is any point whose previous close is zero.
func PercentChange(series *domain.PriceSeries) domain.DerivedSeries {
	closes := series.Closes()
	out := domain.NewDerivedSeries("PCT", series.Times())
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev == 0 {
			continue
		}
		out.Set(i, (closes[i]-prev)/prev)
	}
	return out
}
