// Package providers defines the capability contracts that every upstream
// market-data client implements, plus helpers shared by the concrete
// clients. Each provider normalizes its own wire format into the canonical
// shapes in internal/models and fails independently of the others.
package providers

import (
	"context"
	"errors"

	"github.com/tickerdeck/tickerdeck/internal/models"
)

// ErrNotConfigured is returned by a provider whose credentials are absent.
// The orchestrator treats it like any other failed attempt; a direct caller
// surfaces it as an authorization failure.
var ErrNotConfigured = errors.New("provider credentials not configured")

// ErrNoData is returned by a direct (non-orchestrated) call when the
// provider has no data for the requested symbol.
var ErrNoData = errors.New("no data available")

// QuoteProvider supplies point-in-time quotes.
// A nil quote with a nil error means the provider has no data.
type QuoteProvider interface {
	Name() string
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// BarsProvider supplies historical OHLCV bars for a timeframe.
// An empty slice with a nil error means the provider has no data.
type BarsProvider interface {
	Name() string
	GetHistoricalBars(ctx context.Context, symbol string, timeframe models.Timeframe) ([]models.Bar, error)
}

// SearchProvider matches symbols and company names against a query.
type SearchProvider interface {
	Name() string
	SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error)
}

// ProfileProvider supplies company profiles. Providers without real profile
// data return a degraded stub rather than nil.
type ProfileProvider interface {
	Name() string
	GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error)
}

// AnalystProvider supplies analyst recommendation counts and price targets.
// Nil results with nil errors mean the provider has no coverage.
type AnalystProvider interface {
	Name() string
	GetAnalystRecommendations(ctx context.Context, symbol string) (*models.AnalystRecommendation, error)
	GetPriceTarget(ctx context.Context, symbol string) (*models.PriceTarget, error)
}

// MaxSearchResults caps the number of search matches any provider returns.
const MaxSearchResults = 10
