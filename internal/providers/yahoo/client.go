// Package yahoo provides a client for the public Yahoo Finance chart and
// search APIs. No credentials are required, which makes it the safety net
// at the end of most fallback chains.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

const (
	// DefaultBaseURL is the base URL for the Yahoo Finance API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	providerName = "yahoo"
)

// Client is a Yahoo Finance API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Yahoo Finance API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the provider name used in orchestrator logs.
func (c *Client) Name() string { return providerName }

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tickerdeck)")

	if c.logger != nil {
		c.logger.Debug().
			Str("provider", providerName).
			Str("url", c.baseURL+path).
			Msg("Yahoo Finance API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// chartParams maps a timeframe to Yahoo's interval and range parameters.
func chartParams(tf models.Timeframe) (interval, window string) {
	switch tf {
	case models.Timeframe1D:
		return "15m", "1d"
	case models.Timeframe5D:
		return "60m", "5d"
	case models.Timeframe1W:
		return "1d", "1mo"
	case models.Timeframe1M:
		return "1d", "1mo"
	case models.Timeframe6M:
		return "1d", "6mo"
	case models.TimeframeYTD:
		return "1d", "ytd"
	case models.Timeframe1Y:
		return "1d", "1y"
	case models.Timeframe5Y:
		return "1wk", "5y"
	default:
		return "1d", "1mo"
	}
}

// GetHistoricalBars retrieves OHLCV bars via the chart API. Null entries
// (halted periods) are skipped.
func (c *Client) GetHistoricalBars(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Bar, error) {
	interval, window := chartParams(tf)

	params := url.Values{}
	params.Set("interval", interval)
	params.Set("range", window)

	var resp chartResponse
	path := "/v8/finance/chart/" + url.PathEscape(strings.ToUpper(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]models.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bars = append(bars, models.Bar{
			Timestamp: ts * 1000,
			Open:      deref(at(quote.Open, i)),
			High:      deref(at(quote.High, i)),
			Low:       deref(at(quote.Low, i)),
			Close:     deref(quote.Close[i]),
			Volume:    derefInt(at(quote.Volume, i)),
		})
	}

	return providers.NormalizeBars(bars), nil
}

// GetQuote retrieves a quote from the chart API metadata.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", "5d")

	var resp chartResponse
	path := "/v8/finance/chart/" + url.PathEscape(strings.ToUpper(symbol))
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return nil, nil
	}

	previousClose := meta.ChartPreviousClose
	if meta.PreviousClose > 0 {
		previousClose = meta.PreviousClose
	}

	change := meta.RegularMarketPrice - previousClose
	changePercent := 0.0
	if previousClose > 0 {
		changePercent = change / previousClose * 100
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePercent,
		High:          meta.RegularMarketDayHigh,
		Low:           meta.RegularMarketDayLow,
		Open:          meta.RegularMarketOpen,
		PreviousClose: previousClose,
		Volume:        meta.RegularMarketVolume,
		Timestamp:     time.Now().UnixMilli(),
	}, nil
}

// SearchSymbols queries the public search API.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", fmt.Sprintf("%d", providers.MaxSearchResults))
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "/v1/finance/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}

		name := q.LongName
		if name == "" {
			name = q.ShortName
		}

		score := 0.8
		if strings.EqualFold(q.Symbol, query) {
			score = 1.0
		}

		results = append(results, models.SearchResult{
			Symbol:      q.Symbol,
			Name:        name,
			Type:        normalizeQuoteType(q.QuoteType),
			Region:      "US",
			MarketOpen:  "09:30",
			MarketClose: "16:00",
			Timezone:    "US/Eastern",
			Currency:    "USD",
			MatchScore:  score,
		})
		if len(results) >= providers.MaxSearchResults {
			break
		}
	}

	return results, nil
}

// normalizeQuoteType maps Yahoo's quoteType values onto the canonical
// result types.
func normalizeQuoteType(t string) string {
	switch strings.ToUpper(t) {
	case "EQUITY", "":
		return "Equity"
	case "ETF":
		return "ETF"
	case "INDEX":
		return "Index"
	case "MUTUALFUND":
		return "Mutual Fund"
	default:
		return t
	}
}

func at[T any](s []T, i int) T {
	var zero T
	if i < len(s) {
		return s[i]
	}
	return zero
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
