// Package market implements the provider fallback orchestrator behind a
// read-through cache. For each capability it walks a fixed,
// priority-ordered provider chain and returns the first usable result;
// the order encodes trust between providers and is a correctness
// requirement, not an optimization.
package market

import (
	"context"

	"github.com/tickerdeck/tickerdeck/internal/cache"
	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/outlook"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

// Service aggregates market data across providers with caching.
type Service struct {
	cache  *cache.Cache
	logger *common.Logger

	quoteChain   []providers.QuoteProvider
	barsChain    []providers.BarsProvider
	searchChain  []providers.SearchProvider
	profileChain []providers.ProfileProvider
	analystChain []providers.AnalystProvider

	engines outlook.Registry
}

// Option configures the Service.
type Option func(*Service)

// WithQuoteChain sets the quote fallback chain, highest priority first.
func WithQuoteChain(chain ...providers.QuoteProvider) Option {
	return func(s *Service) { s.quoteChain = chain }
}

// WithBarsChain sets the historical-bars fallback chain.
func WithBarsChain(chain ...providers.BarsProvider) Option {
	return func(s *Service) { s.barsChain = chain }
}

// WithSearchChain sets the symbol-search fallback chain.
func WithSearchChain(chain ...providers.SearchProvider) Option {
	return func(s *Service) { s.searchChain = chain }
}

// WithProfileChain sets the company-profile fallback chain.
func WithProfileChain(chain ...providers.ProfileProvider) Option {
	return func(s *Service) { s.profileChain = chain }
}

// WithAnalystChain sets the analyst-data fallback chain.
func WithAnalystChain(chain ...providers.AnalystProvider) Option {
	return func(s *Service) { s.analystChain = chain }
}

// WithEngines sets the outlook engine registry.
func WithEngines(engines outlook.Registry) Option {
	return func(s *Service) { s.engines = engines }
}

// NewService creates the orchestrator.
func NewService(c *cache.Cache, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		cache:   c,
		logger:  logger,
		engines: outlook.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engines returns the outlook engine registry.
func (s *Service) Engines() outlook.Registry {
	return s.engines
}

// logAttemptFailure records a failed provider attempt. Provider failures
// are diagnostics, never request errors: the chain simply moves on.
func (s *Service) logAttemptFailure(capability, provider, subject string, err error) {
	s.logger.Warn().
		Str("capability", capability).
		Str("provider", provider).
		Str("subject", subject).
		Err(err).
		Msg("provider attempt failed, trying next")
}

// GetQuote returns the first quote any provider in the chain can supply.
// A nil quote with nil error means every provider was exhausted.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	key := cache.QuoteKey(symbol)

	var cached models.Quote
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	for _, p := range s.quoteChain {
		quote, err := p.GetQuote(ctx, symbol)
		if err != nil {
			s.logAttemptFailure("quote", p.Name(), symbol, err)
			continue
		}
		if quote == nil {
			continue
		}

		s.cache.Set(ctx, key, quote, cache.TTLQuote)
		return quote, nil
	}

	return nil, nil
}

// GetHistoricalBars returns the first non-empty bar series any provider
// in the chain can supply. An empty series means exhaustion, not failure.
func (s *Service) GetHistoricalBars(ctx context.Context, symbol string, tf models.Timeframe) ([]models.Bar, error) {
	key := cache.ChartKey(symbol, tf)

	var cached []models.Bar
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	for _, p := range s.barsChain {
		bars, err := p.GetHistoricalBars(ctx, symbol, tf)
		if err != nil {
			s.logAttemptFailure("chart", p.Name(), symbol, err)
			continue
		}
		if len(bars) == 0 {
			continue
		}

		s.cache.Set(ctx, key, bars, cache.ChartTTL(tf))
		return bars, nil
	}

	return nil, nil
}

// SearchSymbols returns the first non-empty result set any provider in
// the chain can supply. Empty result sets are cached too: a query that
// matches nothing will keep matching nothing for the TTL window.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error) {
	key := cache.SearchKey(query)

	var cached []models.SearchResult
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	var results []models.SearchResult
	for _, p := range s.searchChain {
		found, err := p.SearchSymbols(ctx, query)
		if err != nil {
			s.logAttemptFailure("search", p.Name(), query, err)
			continue
		}
		if len(found) == 0 {
			continue
		}

		results = found
		break
	}

	if len(results) > providers.MaxSearchResults {
		results = results[:providers.MaxSearchResults]
	}

	s.cache.Set(ctx, key, results, cache.TTLSearch)
	return results, nil
}

// GetCompanyProfile returns the first profile any provider in the chain
// can supply. Chains usually end with a provider that returns a degraded
// stub, so exhaustion is rare but still maps to nil, nil.
func (s *Service) GetCompanyProfile(ctx context.Context, symbol string) (*models.CompanyProfile, error) {
	key := cache.CompanyKey(symbol)

	var cached models.CompanyProfile
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	for _, p := range s.profileChain {
		profile, err := p.GetCompanyProfile(ctx, symbol)
		if err != nil {
			s.logAttemptFailure("company", p.Name(), symbol, err)
			continue
		}
		if profile == nil {
			continue
		}

		s.cache.Set(ctx, key, profile, cache.TTLCompany)
		return profile, nil
	}

	return nil, nil
}
