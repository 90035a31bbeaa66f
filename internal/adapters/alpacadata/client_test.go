package alpacadata

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockDash/internal/ports"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	debugMsgs []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type fakeData struct {
	bars    map[string][]marketdata.Bar
	barsErr error
	news    []marketdata.News
	newsErr error

	lastBarsReq marketdata.GetBarsRequest
	lastNewsReq marketdata.GetNewsRequest
}

func (f *fakeData) GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
	f.lastBarsReq = req
	return f.bars, f.barsErr
}

func (f *fakeData) GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error) {
	f.lastNewsReq = req
	return f.news, f.newsErr
}

var day0 = time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{APIKey: "k", APISecret: "s"})
	assert.Error(t, err)

	_, err = New(Config{Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	c, err := New(Config{APIKey: "k", APISecret: "s", Feed: "SIP", Logger: &mockLogger{}})
	require.NoError(t, err)
	assert.Equal(t, marketdata.SIP, c.feed)
	assert.Equal(t, "alpaca", c.Name())
}

func TestFetchSeries(t *testing.T) {
	fake := &fakeData{bars: map[string][]marketdata.Bar{
		"AAPL": {
			{Timestamp: day0, Open: 187, High: 188, Low: 183, Close: 185.5, Volume: 1000},
			{Timestamp: day0.AddDate(0, 0, 1), Open: 184, High: 185, Low: 182, Close: 184.2, Volume: 900},
		},
		"MSFT": {},
	}}
	c := &Client{md: fake, logger: &mockLogger{}, feed: marketdata.IEX}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := c.FetchSeries(context.Background(), []string{"AAPL", "MSFT", "GONE"}, start, start.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, got, 1)
	series := got["AAPL"]
	assert.Equal(t, []float64{185.5, 184.2}, series.Closes())
	assert.True(t, series.Bars[0].Time.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1000.0, series.Bars[0].Volume)
	assert.Equal(t, marketdata.OneDay, fake.lastBarsReq.TimeFrame)
	assert.True(t, fake.lastBarsReq.End.After(start.AddDate(0, 0, 7)), "end date must be inclusive")
}

func TestFetchSeries_Error(t *testing.T) {
	logger := &mockLogger{}
	c := &Client{md: &fakeData{barsErr: errors.New("status 403: forbidden")}, logger: logger}

	_, err := c.FetchSeries(context.Background(), []string{"AAPL"}, day0, day0)
	assert.ErrorIs(t, err, ports.ErrFetchFailure)
	assert.ErrorIs(t, err, ports.ErrAuthenticationFailed)
	assert.Len(t, logger.errorMsgs, 1)
}

func TestHeadlines(t *testing.T) {
	news := make([]marketdata.News, 0, 7)
	for i := 0; i < 7; i++ {
		news = append(news, marketdata.News{Headline: " Story ", URL: "https://example.com", Source: "benzinga", CreatedAt: day0})
	}
	news[1].Headline = ""
	fake := &fakeData{news: news}
	c := &Client{md: fake, logger: &mockLogger{}}

	got := c.Headlines(context.Background(), "AAPL", 10)
	assert.Len(t, got, 5)
	assert.Equal(t, 5, fake.lastNewsReq.TotalLimit)
	assert.Equal(t, "Story", got[0].Title)
	assert.Equal(t, "benzinga", got[0].Source)

	assert.Empty(t, c.Headlines(context.Background(), "AAPL", 0))
}

func TestHeadlines_ErrorSwallowed(t *testing.T) {
	logger := &mockLogger{}
	c := &Client{md: &fakeData{newsErr: errors.New("boom")}, logger: logger}

	assert.Empty(t, c.Headlines(context.Background(), "AAPL", 3))
	assert.Len(t, logger.debugMsgs, 1)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{context.DeadlineExceeded, ports.ErrTimeout},
		{errors.New("status code 429: too many requests"), ports.ErrRateLimited},
		{errors.New("invalid symbol: XX"), ports.ErrUnknownSymbol},
		{errors.New("status code 500"), ports.ErrProviderUnavailable},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, translateError(tt.err), tt.want, tt.err.Error())
	}
}
