package marketdata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"backtest-engine-go/internal/backtest"
	"backtest-engine-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProviderInterface defines the interface for the daily-bar provider client.
type ProviderInterface interface {
	GetDailyBars(ticker string, start, end string) ([]Bar, error)
}

// Bar is one daily bar as returned by the provider.
type Bar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Volume   float64 `json:"volume"`
}

// Client fetches daily bars from an HTTP provider. It materializes the price
// panel before a run; the engine itself never performs I/O.
type Client struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ProviderInterface = (*Client)(nil)

// NewClient creates a provider client from the marketdata configuration.
func NewClient(cfg *config.MarketData, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		apiKey:  cfg.APIKey,
		logger:  logger,
		limiter: limiter,
	}
}

// GetDailyBars fetches the daily bars for one ticker within the inclusive
// [start, end] date range (YYYY-MM-DD strings, empty = open).
func (c *Client) GetDailyBars(ticker string, start, end string) ([]Bar, error) {
	var bars []Bar

	req := c.client.R().
		SetQueryParam("symbol", ticker).
		SetResult(&bars)
	if start != "" {
		req.SetQueryParam("start", start)
	}
	if end != "" {
		req.SetQueryParam("end", end)
	}
	if c.apiKey != "" {
		req.SetHeader("X-Api-Key", c.apiKey)
	}

	if _, err := c.doRequest(context.Background(), "GET", "/daily", req); err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", ticker, err)
	}
	return bars, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		if err == nil && resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
			return nil, fmt.Errorf("provider rejected request: status %d", resp.StatusCode())
		}

		c.logger.Warn("Request failed, retrying",
			zap.Int("attempt", i+1),
			zap.String("url", url),
			zap.Error(err))
		time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
	}
	return nil, fmt.Errorf("request failed after %d attempts: status %d", maxRetries, resp.StatusCode())
}

// FetchPanel fetches bars for every ticker and assembles them into a price
// panel over the union of all returned dates. Close is preferred; adjusted
// close fills in when close is missing. Days without a bar for a ticker are
// left without a price.
func FetchPanel(provider ProviderInterface, tickers []string, start, end string) (*backtest.Panel, error) {
	barsByTicker := make(map[string]map[string]Bar, len(tickers))
	dateSet := make(map[string]struct{})

	for _, ticker := range tickers {
		bars, err := provider.GetDailyBars(ticker, start, end)
		if err != nil {
			return nil, err
		}
		byDate := make(map[string]Bar, len(bars))
		for _, bar := range bars {
			byDate[bar.Date] = bar
			dateSet[bar.Date] = struct{}{}
		}
		barsByTicker[ticker] = byDate
	}

	if len(dateSet) == 0 {
		return nil, fmt.Errorf("provider returned no bars for %v", tickers)
	}

	dateStrings := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dateStrings = append(dateStrings, d)
	}
	sort.Strings(dateStrings)

	dates := make([]time.Time, len(dateStrings))
	for i, d := range dateStrings {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("provider returned malformed date %q: %w", d, err)
		}
		dates[i] = parsed
	}

	series := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		closes := make([]float64, len(dateStrings))
		for i, d := range dateStrings {
			bar, ok := barsByTicker[ticker][d]
			switch {
			case !ok:
				closes[i] = math.NaN()
			case bar.Close != 0:
				closes[i] = bar.Close
			case bar.AdjClose != 0:
				closes[i] = bar.AdjClose
			default:
				closes[i] = math.NaN()
			}
		}
		series[ticker] = closes
	}

	return backtest.NewPanel(dates, series)
}
