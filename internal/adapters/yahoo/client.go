// Package yahoo fetches daily bars from the public Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client implements ports.MarketDataProvider using the Yahoo chart endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     ports.Logger
	symbolMap  map[string]string // Maps display symbol to Yahoo ticker
}

// Config holds configuration for the Yahoo client.
type Config struct {
	BaseURL    string // Defaults to the public query1 host
	HTTPClient *http.Client
	Logger     ports.Logger
}

// New creates a Yahoo Finance client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Yahoo client")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
		symbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
			"NDX":   "^NDX",
		},
	}, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return "yahoo" }

// chartResponse is the response structure of the chart API. Quote arrays carry
// nulls on days without trading.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries downloads daily bars per symbol. Unknown symbols and symbols
// without bars in the range are left out. Other per-symbol failures are
// returned as ports.SymbolErrors next to the series that were fetched.
func (c *Client) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	out := make(map[string]*domain.PriceSeries, len(symbols))
	failed := ports.SymbolErrors{}
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("yahoo fetch: %w: %w", ports.ErrFetchFailure, err)
		}
		bars, err := c.fetchChart(ctx, symbol, start, end)
		if errors.Is(err, ports.ErrUnknownSymbol) || errors.Is(err, ports.ErrNoData) {
			c.logger.Warn(ctx, "No Yahoo data for symbol, skipping", map[string]interface{}{"symbol": symbol, "reason": err.Error()})
			continue
		}
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("yahoo fetch %s: %w: %w", symbol, ports.ErrFetchFailure, err)
		}
		if err != nil {
			c.logger.Warn(ctx, "Yahoo fetch failed for symbol, skipping", map[string]interface{}{"symbol": symbol, "error": err.Error()})
			failed[symbol] = fmt.Errorf("yahoo fetch %s: %w: %w", symbol, ports.ErrFetchFailure, err)
			continue
		}
		out[symbol] = &domain.PriceSeries{Symbol: symbol, Interval: "1d", Bars: bars}
	}
	return out, failed.OrNil()
}

func (c *Client) ticker(symbol string) string {
	if mapped, ok := c.symbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

func (c *Client) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	// period2 is exclusive
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(c.ticker(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrInvalidRequest, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: %w", ports.ErrTimeout, err)
		case errors.Is(err, context.Canceled):
			return nil, fmt.Errorf("%w: %w", ports.ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w: %w", ports.ErrConnectionFailed, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ports.ErrUnknownSymbol)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ports.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ports.ErrAuthenticationFailed)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("status %d: %w", resp.StatusCode, ports.ErrProviderUnavailable)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w: %w", ports.ErrUnknown, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %w", chart.Chart.Error.Description, ports.ErrUnknownSymbol)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ports.ErrNoData
	}
	return translateChart(chart)
}

func translateChart(chart chartResponse) ([]domain.Bar, error) {
	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Close) != n || len(quote.Open) != n || len(quote.High) != n || len(quote.Low) != n {
		return nil, fmt.Errorf("quote arrays do not match %d timestamps: %w", n, ports.ErrUnknown)
	}

	bars := make([]domain.Bar, 0, n)
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue // Skip null bars (holidays, halts)
		}
		bar := domain.Bar{
			Time:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:  value(quote.Open[i]),
			High:  value(quote.High[i]),
			Low:   value(quote.Low[i]),
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) {
			bar.Volume = value(quote.Volume[i])
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, ports.ErrNoData
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	// Yahoo can repeat the current session as a second row; keep the latest.
	deduped := bars[:1]
	for _, b := range bars[1:] {
		if b.Time.Equal(deduped[len(deduped)-1].Time) {
			deduped[len(deduped)-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped, nil
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
