// Package finnhub provides a client for the Finnhub API: quotes, company
// profiles, analyst recommendations, and price targets.
package finnhub

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
	// DefaultBaseURL is the base URL for the Finnhub API.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 8 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	providerName = "finnhub"
)

// Client is a Finnhub API client.
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

// NewClient creates a new Finnhub API client.
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

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.apiKey == "" {
		return providers.ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("provider", providerName).
			Str("url", c.baseURL+path).
			Msg("Finnhub API request")
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

// quoteResponse is the wire shape of GET /quote.
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePct     float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// GetQuote retrieves a live quote. Finnhub returns all zeros for unknown
// symbols, which maps to a nil quote here.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(symbol)

	var resp quoteResponse
	if err := c.get(ctx, "/quote", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return nil, err
	}

	if resp.Current == 0 && resp.PreviousClose == 0 {
		return nil, nil
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         resp.Current,
		Change:        resp.Change,
		ChangePercent: resp.ChangePct,
		High:          resp.High,
		Low:           resp.Low,
		Open:          resp.Open,
		PreviousClose: resp.PreviousClose,
		Volume:        0, // not supplied by this endpoint
		Timestamp:     time.Now().UnixMilli(),
	}, nil
}

// profileResponse is the wire shape of GET /stock/profile2.
type profileResponse struct {
	Name             string  `json:"name"`
	Industry         string  `json:"finnhubIndustry"`
	MarketCap        float64 `json:"marketCapitalization"`
	ShareOutstanding float64 `json:"shareOutstanding"`
	EmployeeTotal    int     `json:"employeeTotal"`
	WebURL           string  `json:"weburl"`
	Logo             string  `json:"logo"`
}

// GetCompanyProfile retrieves company reference data. Unknown symbols
// yield an empty object upstream, which maps to nil here.
func (c *Client) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	symbol = strings.ToUpper(symbol)

	var resp profileResponse
	if err := c.get(ctx, "/stock/profile2", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return nil, err
	}

	if resp.Name == "" {
		return nil, nil
	}

	description := ""
	if resp.ShareOutstanding > 0 {
		description = fmt.Sprintf("Market Cap: %.0fM", resp.MarketCap)
	}

	return &models.CompanyProfile{
		Symbol:      symbol,
		Name:        resp.Name,
		Description: description,
		Sector:      resp.Industry,
		Industry:    resp.Industry,
		Employees:   resp.EmployeeTotal,
		MarketCap:   resp.MarketCap,
		Website:     resp.WebURL,
		Logo:        resp.Logo,
	}, nil
}

// recommendationEntry is one period in GET /stock/recommendation.
type recommendationEntry struct {
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strongBuy"`
	StrongSell int    `json:"strongSell"`
	Period     string `json:"period"`
}

// GetAnalystRecommendations retrieves the latest recommendation period.
// Symbols without coverage yield nil.
func (c *Client) GetAnalystRecommendations(ctx context.Context, symbol string) (*models.AnalystRecommendation, error) {
	symbol = strings.ToUpper(symbol)

	var entries []recommendationEntry
	if err := c.get(ctx, "/stock/recommendation", url.Values{"symbol": {symbol}}, &entries); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	latest := entries[0]
	return &models.AnalystRecommendation{
		Symbol:     symbol,
		StrongBuy:  latest.StrongBuy,
		Buy:        latest.Buy,
		Hold:       latest.Hold,
		Sell:       latest.Sell,
		StrongSell: latest.StrongSell,
		Period:     latest.Period,
	}, nil
}

// priceTargetResponse is the wire shape of GET /stock/price-target.
type priceTargetResponse struct {
	TargetHigh       float64 `json:"targetHigh"`
	TargetLow        float64 `json:"targetLow"`
	TargetMean       float64 `json:"targetMean"`
	TargetMedian     float64 `json:"targetMedian"`
	NumberOfAnalysts int     `json:"numberOfAnalysts"`
}

// GetPriceTarget retrieves consensus price targets. Symbols without
// coverage yield nil.
func (c *Client) GetPriceTarget(ctx context.Context, symbol string) (*models.PriceTarget, error) {
	symbol = strings.ToUpper(symbol)

	var resp priceTargetResponse
	if err := c.get(ctx, "/stock/price-target", url.Values{"symbol": {symbol}}, &resp); err != nil {
		return nil, err
	}

	if resp.TargetMean == 0 && resp.NumberOfAnalysts == 0 {
		return nil, nil
	}

	return &models.PriceTarget{
		Symbol:           symbol,
		TargetHigh:       resp.TargetHigh,
		TargetLow:        resp.TargetLow,
		TargetMean:       resp.TargetMean,
		TargetMedian:     resp.TargetMedian,
		NumberOfAnalysts: resp.NumberOfAnalysts,
		Currency:         "USD",
	}, nil
}
