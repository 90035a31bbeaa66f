// Package finviz scrapes headline links from Finviz quote pages.
package finviz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockDash/internal/domain"
	"stockDash/internal/ports"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultBaseURL = "https://finviz.com"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Scraper implements ports.HeadlineSource.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	logger     ports.Logger
}

// New creates a Finviz scraper. An empty baseURL uses finviz.com.
func New(baseURL string, httpClient *http.Client, logger ports.Logger) *Scraper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Headlines returns up to limit headlines from the quote page's news table.
// Any failure yields an empty result.
func (s *Scraper) Headlines(ctx context.Context, symbol string, limit int) []domain.Headline {
	if limit > domain.MaxHeadlines {
		limit = domain.MaxHeadlines
	}
	if limit <= 0 {
		return nil
	}
	headlines, err := s.scrape(ctx, symbol, limit)
	if err != nil {
		s.logger.Debug(ctx, "Finviz headline lookup failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
		return nil
	}
	return headlines
}

func (s *Scraper) scrape(ctx context.Context, symbol string, limit int) ([]domain.Headline, error) {
	u := fmt.Sprintf("%s/quote.ashx?t=%s", s.baseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []domain.Headline
	doc.Find("#news-table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		link := row.Find("a.tab-link-news, a.tab-link").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		out = append(out, domain.Headline{
			Title:  title,
			Link:   s.absolute(href),
			Source: strings.Trim(strings.TrimSpace(row.Find(".news-link-right span").First().Text()), "()"),
		})
		return len(out) < limit
	})
	return out, nil
}

func (s *Scraper) absolute(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return s.baseURL + "/" + strings.TrimLeft(href, "/")
}
