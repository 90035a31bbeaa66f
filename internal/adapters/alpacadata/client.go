// Package alpacadata adapts the Alpaca market data API to the bar and news ports.
package alpacadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// dataClient is the subset of *marketdata.Client used here.
type dataClient interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
	GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error)
}

// Client implements ports.MarketDataProvider and ports.HeadlineSource.
type Client struct {
	md     dataClient
	logger ports.Logger
	feed   marketdata.Feed
}

// Config holds configuration for the Alpaca adapter.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string // Optional data API override
	Feed      string // "iex" (free tier) or "sip"
	Logger    ports.Logger
}

// New creates an Alpaca market data adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("alpaca API key and secret are required: %w", ports.ErrConfigurationError)
	}
	feed := marketdata.IEX
	if strings.EqualFold(cfg.Feed, "sip") {
		feed = marketdata.SIP
	}
	md := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		BaseURL:   cfg.BaseURL,
		Feed:      feed,
	})
	return &Client{md: md, logger: cfg.Logger, feed: feed}, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return "alpaca" }

// FetchSeries retrieves split-adjusted daily bars for all symbols in one request.
func (c *Client) FetchSeries(ctx context.Context, symbols []string, start, end time.Time) (map[string]*domain.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("alpaca fetch: %w: %w", ports.ErrFetchFailure, err)
	}
	req := marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		End:        end.AddDate(0, 0, 1),
		Feed:       c.feed,
	}
	raw, err := c.md.GetMultiBars(symbols, req)
	if err != nil {
		c.logger.Error(ctx, err, "Alpaca bars request failed", map[string]interface{}{"symbols": strings.Join(symbols, ",")})
		return nil, fmt.Errorf("alpaca fetch: %w: %w", ports.ErrFetchFailure, translateError(err))
	}

	out := make(map[string]*domain.PriceSeries, len(raw))
	for _, symbol := range symbols {
		bars := raw[symbol]
		if len(bars) == 0 {
			continue
		}
		series := &domain.PriceSeries{Symbol: symbol, Interval: "1d", Bars: make([]domain.Bar, 0, len(bars))}
		for _, b := range bars {
			series.Bars = append(series.Bars, domain.Bar{
				Time:   b.Timestamp.UTC().Truncate(24 * time.Hour),
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: float64(b.Volume),
			})
		}
		out[symbol] = series
	}
	return out, nil
}

// Headlines returns the latest news for symbol. Errors are logged and swallowed.
func (c *Client) Headlines(ctx context.Context, symbol string, limit int) []domain.Headline {
	limit = clampLimit(limit)
	if limit == 0 || ctx.Err() != nil {
		return nil
	}
	news, err := c.md.GetNews(marketdata.GetNewsRequest{
		Symbols:    []string{symbol},
		TotalLimit: limit,
	})
	if err != nil {
		c.logger.Debug(ctx, "Alpaca news lookup failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return nil
	}

	out := make([]domain.Headline, 0, limit)
	for _, n := range news {
		if len(out) == limit {
			break
		}
		if strings.TrimSpace(n.Headline) == "" {
			continue
		}
		out = append(out, domain.Headline{
			Title:     strings.TrimSpace(n.Headline),
			Link:      n.URL,
			Source:    n.Source,
			Published: n.CreatedAt,
		})
	}
	return out
}

func clampLimit(limit int) int {
	if limit < 0 {
		return 0
	}
	if limit > domain.MaxHeadlines {
		return domain.MaxHeadlines
	}
	return limit
}

func translateError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ports.ErrTimeout, err)
	case strings.Contains(msg, "forbidden") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "403") || strings.Contains(msg, "401"):
		return fmt.Errorf("%w: %w", ports.ErrAuthenticationFailed, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %w", ports.ErrRateLimited, err)
	case strings.Contains(msg, "invalid symbol"):
		return fmt.Errorf("%w: %w", ports.ErrUnknownSymbol, err)
	default:
		return fmt.Errorf("%w: %w", ports.ErrProviderUnavailable, err)
	}
}
