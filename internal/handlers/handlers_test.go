package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tickerdeck/tickerdeck/internal/cache"
	"github.com/tickerdeck/tickerdeck/internal/common"
	"github.com/tickerdeck/tickerdeck/internal/market"
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// memStore is an in-memory cache.Store for tests. Outlook requests read and
// write it from concurrent goroutines, so it locks.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
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

// stubProvider implements the capability interfaces with canned data.
type stubProvider struct {
	quote   *models.Quote
	bars    []models.Bar
	results []models.SearchResult
	profile *models.CompanyProfile
	rec     *models.AnalystRecommendation
	target  *models.PriceTarget
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) GetQuote(context.Context, string) (*models.Quote, error) {
	return s.quote, nil
}

func (s *stubProvider) GetHistoricalBars(context.Context, string, models.Timeframe) ([]models.Bar, error) {
	return s.bars, nil
}

func (s *stubProvider) SearchSymbols(context.Context, string) ([]models.SearchResult, error) {
	return s.results, nil
}

func (s *stubProvider) GetCompanyProfile(context.Context, string) (*models.CompanyProfile, error) {
	return s.profile, nil
}

func (s *stubProvider) GetAnalystRecommendations(context.Context, string) (*models.AnalystRecommendation, error) {
	return s.rec, nil
}

func (s *stubProvider) GetPriceTarget(context.Context, string) (*models.PriceTarget, error) {
	return s.target, nil
}

func newTestService(p *stubProvider) *market.Service {
	logger := common.NewSilentLogger()
	c := cache.New(&memStore{data: make(map[string]string)}, logger)
	return market.NewService(c, logger,
		market.WithQuoteChain(p),
		market.WithBarsChain(p),
		market.WithSearchChain(p),
		market.WithProfileChain(p),
		market.WithAnalystChain(p),
	)
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return body
}

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if body := errorBody(t, w); body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestHealthHandler_RejectsPost(t *testing.T) {
	handler := NewHealthHandler(common.NewSilentLogger())

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsVersionInfo(t *testing.T) {
	handler := NewVersionHandler(common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	body := errorBody(t, w)
	if body["version"] == "" {
		t.Error("version missing from response")
	}
}

func TestQuoteHandler_MissingSymbol(t *testing.T) {
	handler := NewQuoteHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/quote", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if body := errorBody(t, w); body["status"] != "error" {
		t.Errorf("error envelope missing: %v", body)
	}
}

func TestQuoteHandler_NotFound(t *testing.T) {
	handler := NewQuoteHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/quote?symbol=ZZZZ", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestQuoteHandler_ReturnsQuote(t *testing.T) {
	p := &stubProvider{quote: &models.Quote{Symbol: "AAPL", Price: 184.2}}
	handler := NewQuoteHandler(newTestService(p), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/quote?symbol=aapl", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var quote models.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatal(err)
	}
	if quote.Symbol != "AAPL" || quote.Price != 184.2 {
		t.Errorf("quote = %+v", quote)
	}
}

func TestChartHandler_InvalidTimeframe(t *testing.T) {
	handler := NewChartHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/chart?symbol=AAPL&timeframe=2D", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestChartHandler_ReturnsBars(t *testing.T) {
	p := &stubProvider{bars: []models.Bar{{Timestamp: 1, Close: 100}, {Timestamp: 2, Close: 101}}}
	handler := NewChartHandler(newTestService(p), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/chart?symbol=AAPL&timeframe=1M", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Symbol    string       `json:"symbol"`
		Timeframe string       `json:"timeframe"`
		Bars      []models.Bar `json:"bars"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Symbol != "AAPL" || body.Timeframe != "1M" || len(body.Bars) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestChartHandler_DefaultTimeframeIsOneDay(t *testing.T) {
	p := &stubProvider{bars: []models.Bar{{Timestamp: 1, Close: 100}}}
	handler := NewChartHandler(newTestService(p), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/chart?symbol=AAPL", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Timeframe string `json:"timeframe"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Timeframe != "1D" {
		t.Errorf("timeframe = %q, want 1D", body.Timeframe)
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	handler := NewSearchHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/search", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSearchHandler_EmptyResultsAreOK(t *testing.T) {
	handler := NewSearchHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/search?q=zzzz", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var body struct {
		Results []models.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Results == nil || len(body.Results) != 0 {
		t.Errorf("results = %v, want empty non-null list", body.Results)
	}
}

func TestCompanyHandler_NotFound(t *testing.T) {
	handler := NewCompanyHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/company?symbol=ZZZZ", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestAnalystHandler_ReturnsData(t *testing.T) {
	p := &stubProvider{
		rec:    &models.AnalystRecommendation{Symbol: "AAPL", Buy: 10},
		target: &models.PriceTarget{Symbol: "AAPL", TargetMean: 210},
	}
	handler := NewAnalystHandler(newTestService(p), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/analyst?symbol=AAPL", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var data models.AnalystData
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Recommendations == nil || data.PriceTarget == nil {
		t.Errorf("data = %+v", data)
	}
}

func TestOutlookHandler_UnknownEngine(t *testing.T) {
	handler := NewOutlookHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/outlook?symbol=AAPL&engine=quantum", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestOutlookHandler_DefaultsToAnalystEngine(t *testing.T) {
	p := &stubProvider{
		quote: &models.Quote{Symbol: "AAPL", Price: 100, High: 101, Low: 99},
		rec:   &models.AnalystRecommendation{Symbol: "AAPL", StrongBuy: 9, Buy: 6, Hold: 3, Sell: 1, StrongSell: 1},
	}
	handler := NewOutlookHandler(newTestService(p), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/outlook?symbol=AAPL", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var prediction models.OutlookPrediction
	if err := json.Unmarshal(w.Body.Bytes(), &prediction); err != nil {
		t.Fatal(err)
	}
	if prediction.Engine != "AnalystEngine" {
		t.Errorf("engine = %q, want AnalystEngine", prediction.Engine)
	}
	if prediction.Summary != "Bullish" {
		t.Errorf("summary = %q", prediction.Summary)
	}
}

func TestOutlookHandler_NoQuoteIs404(t *testing.T) {
	handler := NewOutlookHandler(newTestService(&stubProvider{}), common.NewSilentLogger())

	req := httptest.NewRequest("GET", "/api/outlook?symbol=ZZZZ", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
