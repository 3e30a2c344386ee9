// Package alphavantage provides a client for the Alpha Vantage API.
// Historical bars come from the TIME_SERIES_* functions, symbol search from
// SYMBOL_SEARCH, and quotes are synthesized from the two most recent daily
// bars.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

const (
	// DefaultBaseURL is the base URL for the Alpha Vantage API.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	// The free tier is heavily throttled upstream; this only bounds bursts.
	DefaultRateLimit = 1

	providerName = "alphavantage"
)

// Client is an Alpha Vantage API client.
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new Alpha Vantage API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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

// get performs a GET request against the query endpoint.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("provider", providerName).
			Str("function", params.Get("function")).
			Str("symbol", params.Get("symbol")).
			Msg("Alpha Vantage API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   params.Get("function"),
		}
	}

	return body, nil
}

// seriesFunction maps a timeframe to the Alpha Vantage time-series
// function, the intraday interval (if any), and the JSON key holding the
// series.
func seriesFunction(tf models.Timeframe) (function, interval, seriesKey string) {
	switch tf {
	case models.Timeframe1D:
		return "TIME_SERIES_INTRADAY", "15min", "Time Series (15min)"
	case models.Timeframe5D:
		return "TIME_SERIES_INTRADAY", "60min", "Time Series (60min)"
	case models.Timeframe5Y:
		return "TIME_SERIES_WEEKLY", "", "Weekly Time Series"
	default:
		return "TIME_SERIES_DAILY", "", "Time Series (Daily)"
	}
}

// GetHistoricalBars retrieves OHLCV bars for a symbol and timeframe.
// A response without the expected series (rate-limit notes, unknown
// symbols) yields an empty slice, not an error.
func (c *Client) GetHistoricalBars(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Bar, error) {
	if c.apiKey == "" {
		return nil, providers.ErrNotConfigured
	}

	function, interval, seriesKey := seriesFunction(tf)

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", strings.ToUpper(symbol))
	if interval != "" {
		params.Set("interval", interval)
	}
	outputSize := "compact"
	if tf == models.Timeframe5Y {
		outputSize = "full"
	}
	params.Set("outputsize", outputSize)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	raw, ok := envelope[seriesKey]
	if !ok {
		return nil, nil
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("failed to parse time series: %w", err)
	}

	timeLayout := "2006-01-02"
	if interval != "" {
		timeLayout = "2006-01-02 15:04:05"
	}

	bars := make([]models.Bar, 0, len(series))
	for stamp, values := range series {
		ts, err := time.Parse(timeLayout, stamp)
		if err != nil {
			continue
		}
		bars = append(bars, models.Bar{
			Timestamp: ts.UnixMilli(),
			Open:      parseFloat(values["1. open"]),
			High:      parseFloat(values["2. high"]),
			Low:       parseFloat(values["3. low"]),
			Close:     parseFloat(values["4. close"]),
			Volume:    parseInt(values["5. volume"]),
		})
	}

	return providers.NormalizeBars(bars), nil
}

// GetQuote synthesizes a quote from the two most recent daily bars.
// Alpha Vantage's dedicated quote endpoint is not available on all plans.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	bars, err := c.GetHistoricalBars(ctx, symbol, models.Timeframe1M)
	if err != nil {
		return nil, err
	}
	return providers.QuoteFromBars(symbol, bars), nil
}

// searchResponse is the wire shape of SYMBOL_SEARCH.
type searchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
}

// SearchSymbols queries the SYMBOL_SEARCH function.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error) {
	if c.apiKey == "" {
		return nil, providers.ErrNotConfigured
	}

	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", query)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.BestMatches))
	for _, match := range resp.BestMatches {
		results = append(results, models.SearchResult{
			Symbol:      match["1. symbol"],
			Name:        match["2. name"],
			Type:        match["3. type"],
			Region:      match["4. region"],
			MarketOpen:  match["5. marketOpen"],
			MarketClose: match["6. marketClose"],
			Timezone:    match["7. timezone"],
			Currency:    match["8. currency"],
			MatchScore:  parseFloat(match["9. matchScore"]),
		})
		if len(results) >= providers.MaxSearchResults {
			break
		}
	}

	return results, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
