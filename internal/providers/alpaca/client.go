// Package alpaca provides a client for the Alpaca Market Data API.
// Alpaca has no dedicated quote or profile endpoint on this plan: quotes
// are synthesized from the two most recent intraday bars and profiles are
// degraded stubs.
package alpaca

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
	// DefaultBaseURL is the base URL for the Alpaca Market Data API.
	DefaultBaseURL = "https://data.alpaca.markets/v2"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 3

	providerName = "alpaca"
)

// Client is an Alpaca Market Data API client.
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
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

// NewClient creates a new Alpaca API client.
func NewClient(apiKey, apiSecret string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
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

// configured reports whether API credentials are present.
func (c *Client) configured() bool {
	return c.apiKey != "" && c.apiSecret != ""
}

// get performs an authorized GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.apiSecret)
	req.Header.Set("Accept", "application/json")

	if c.logger != nil {
		c.logger.Debug().
			Str("provider", providerName).
			Str("url", c.baseURL+path).
			Msg("Alpaca API request")
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

// barsResponse is the wire shape of GET /stocks/bars.
type barsResponse struct {
	Bars map[string][]wireBar `json:"bars"`
}

type wireBar struct {
	T string  `json:"t"` // RFC3339 bar close time
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V int64   `json:"v"`
}

// timeframeParam maps a timeframe to Alpaca's bar resolution.
func timeframeParam(tf models.Timeframe) string {
	switch tf {
	case models.Timeframe1D:
		return "15Min"
	case models.Timeframe5D:
		return "1Hour"
	case models.Timeframe5Y:
		return "1Week"
	default:
		return "1Day"
	}
}

// GetHistoricalBars retrieves OHLCV bars for a symbol and timeframe.
// Returns ErrNotConfigured when credentials are absent and ErrNoData when
// the API has no bars for the symbol.
func (c *Client) GetHistoricalBars(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Bar, error) {
	if !c.configured() {
		return nil, providers.ErrNotConfigured
	}

	symbol = strings.ToUpper(symbol)
	now := time.Now()

	params := url.Values{}
	params.Set("symbols", symbol)
	params.Set("timeframe", timeframeParam(tf))
	params.Set("start", providers.TimeframeStart(now, tf).Format("2006-01-02"))
	params.Set("end", now.Format("2006-01-02"))
	params.Set("limit", "1000")
	params.Set("adjustment", "split")
	params.Set("feed", "iex")

	var resp barsResponse
	if err := c.get(ctx, "/stocks/bars", params, &resp); err != nil {
		return nil, err
	}

	wire := resp.Bars[symbol]
	if len(wire) == 0 {
		return nil, fmt.Errorf("%w for %s", providers.ErrNoData, symbol)
	}

	bars := make([]models.Bar, 0, len(wire))
	for _, b := range wire {
		ts, err := time.Parse(time.RFC3339, b.T)
		if err != nil {
			continue
		}
		bars = append(bars, models.Bar{
			Timestamp: ts.UnixMilli(),
			Open:      b.O,
			High:      b.H,
			Low:       b.L,
			Close:     b.C,
			Volume:    b.V,
		})
	}

	return providers.NormalizeBars(bars), nil
}

// GetQuote synthesizes a quote from the latest intraday bars.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	bars, err := c.GetHistoricalBars(ctx, symbol, models.Timeframe1D)
	if err != nil {
		return nil, err
	}
	return providers.QuoteFromBars(symbol, bars), nil
}

// GetCompanyProfile returns a degraded profile stub. Alpaca does not
// provide company reference data, and a placeholder beats an error here.
func (c *Client) GetCompanyProfile(_ context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = strings.ToUpper(symbol)
	return &models.CompanyProfile{
		Symbol:      symbol,
		Name:        fmt.Sprintf("%s Inc.", symbol),
		Description: fmt.Sprintf("Company information for %s", symbol),
		Sector:      "Technology",
		Industry:    "Software",
	}, nil
}
