package market

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tickerdeck/tickerdeck/internal/cache"
	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

// memStore is an in-memory cache.Store for tests. Outlook requests hit the
// store from concurrent goroutines, so it locks like a real store would.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// fakeProvider implements every capability with scripted results.
type fakeProvider struct {
	name string

	quote   *models.Quote
	bars    []models.Bar
	results []models.SearchResult
	profile *models.CompanyProfile
	rec     *models.AnalystRecommendation
	target  *models.PriceTarget
	err     error

	mu          sync.Mutex
	quoteCalls  int
	barCalls    int
	searchCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) countQuoteCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quoteCalls
}

func (f *fakeProvider) GetQuote(_ context.Context, _ string) (*models.Quote, error) {
	f.mu.Lock()
	f.quoteCalls++
	f.mu.Unlock()
	return f.quote, f.err
}

func (f *fakeProvider) GetHistoricalBars(_ context.Context, _ string, _ models.Timeframe) ([]models.Bar, error) {
	f.mu.Lock()
	f.barCalls++
	f.mu.Unlock()
	return f.bars, f.err
}

func (f *fakeProvider) SearchSymbols(_ context.Context, _ string) ([]models.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.results, f.err
}

func (f *fakeProvider) GetCompanyProfile(_ context.Context, _ string) (*models.CompanyProfile, error) {
	return f.profile, f.err
}

func (f *fakeProvider) GetAnalystRecommendations(_ context.Context, _ string) (*models.AnalystRecommendation, error) {
	return f.rec, f.err
}

func (f *fakeProvider) GetPriceTarget(_ context.Context, _ string) (*models.PriceTarget, error) {
	return f.target, f.err
}

func newTestService(opts ...Option) *Service {
	logger := common.NewSilentLogger()
	c := cache.New(newMemStore(), logger)
	return NewService(c, logger, opts...)
}

func TestGetQuoteFallsThroughFailures(t *testing.T) {
	failing := &fakeProvider{name: "first", err: errors.New("upstream down")}
	empty := &fakeProvider{name: "second"}
	good := &fakeProvider{name: "third", quote: &models.Quote{Symbol: "AAPL", Price: 184.2}}

	svc := newTestService(WithQuoteChain(failing, empty, good))

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if quote == nil || quote.Price != 184.2 {
		t.Fatalf("quote = %+v, want price 184.2", quote)
	}
	if failing.quoteCalls != 1 || empty.quoteCalls != 1 || good.quoteCalls != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1",
			failing.quoteCalls, empty.quoteCalls, good.quoteCalls)
	}
}

func TestGetQuoteStopsAtFirstSuccess(t *testing.T) {
	first := &fakeProvider{name: "first", quote: &models.Quote{Symbol: "AAPL", Price: 184.2}}
	second := &fakeProvider{name: "second", quote: &models.Quote{Symbol: "AAPL", Price: 999}}

	svc := newTestService(WithQuoteChain(first, second))

	quote, _ := svc.GetQuote(context.Background(), "AAPL")
	if quote.Price != 184.2 {
		t.Errorf("price = %v, want first provider's 184.2", quote.Price)
	}
	if second.quoteCalls != 0 {
		t.Errorf("second provider called %d times, want 0", second.quoteCalls)
	}
}

func TestGetQuoteExhaustionIsNotError(t *testing.T) {
	svc := newTestService(WithQuoteChain(
		&fakeProvider{name: "a", err: providers.ErrNotConfigured},
		&fakeProvider{name: "b"},
	))

	quote, err := svc.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("exhaustion must not be an error, got %v", err)
	}
	if quote != nil {
		t.Fatalf("quote = %+v, want nil", quote)
	}
}

func TestGetQuoteServedFromCache(t *testing.T) {
	p := &fakeProvider{name: "only", quote: &models.Quote{Symbol: "AAPL", Price: 184.2}}
	svc := newTestService(WithQuoteChain(p))
	ctx := context.Background()

	if _, err := svc.GetQuote(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetQuote(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}

	if p.quoteCalls != 1 {
		t.Errorf("provider called %d times, want 1 (second hit from cache)", p.quoteCalls)
	}
}

func TestGetHistoricalBarsFallback(t *testing.T) {
	bars := []models.Bar{{Timestamp: 1, Close: 100}, {Timestamp: 2, Close: 101}}
	svc := newTestService(WithBarsChain(
		&fakeProvider{name: "a", err: errors.New("down")},
		&fakeProvider{name: "b", bars: bars},
	))

	got, err := svc.GetHistoricalBars(context.Background(), "AAPL", models.Timeframe1M)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("bars = %d, want 2", len(got))
	}
}

func TestSearchCachesEmptyResults(t *testing.T) {
	p := &fakeProvider{name: "only"}
	svc := newTestService(WithSearchChain(p))
	ctx := context.Background()

	results, err := svc.SearchSymbols(ctx, "zzzz")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %v, want empty", results)
	}

	svc.SearchSymbols(ctx, "zzzz")
	if p.searchCalls != 1 {
		t.Errorf("provider called %d times, want 1 (empty result cached)", p.searchCalls)
	}
}

func TestSearchCapsResults(t *testing.T) {
	many := make([]models.SearchResult, 15)
	for i := range many {
		many[i] = models.SearchResult{Symbol: "S", MatchScore: 0.5}
	}
	svc := newTestService(WithSearchChain(&fakeProvider{name: "only", results: many}))

	results, _ := svc.SearchSymbols(context.Background(), "s")
	if len(results) != providers.MaxSearchResults {
		t.Errorf("results = %d, want %d", len(results), providers.MaxSearchResults)
	}
}

func TestGetCompanyProfileFallback(t *testing.T) {
	svc := newTestService(WithProfileChain(
		&fakeProvider{name: "a"},
		&fakeProvider{name: "b", profile: &models.CompanyProfile{Symbol: "AAPL", Name: "Apple Inc."}},
	))

	profile, err := svc.GetCompanyProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil || profile.Name != "Apple Inc." {
		t.Errorf("profile = %+v", profile)
	}
}
