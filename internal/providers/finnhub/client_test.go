package finnhub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tickerdeck/tickerdeck/internal/providers"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestGetQuote(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-key" {
			t.Error("missing token param")
		}
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("symbol = %q", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"c": 184.2, "d": 2.2, "dp": 1.21, "h": 185.0, "l": 182.0, "o": 183.0, "pc": 182.0}`))
	})

	q, err := c.GetQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatal(err)
	}
	if q.Symbol != "AAPL" {
		t.Errorf("symbol = %q", q.Symbol)
	}
	if q.Price != 184.2 || q.ChangePercent != 1.21 || q.PreviousClose != 182.0 {
		t.Errorf("quote = %+v", q)
	}
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c": 0, "d": 0, "dp": 0, "h": 0, "l": 0, "o": 0, "pc": 0}`))
	})

	q, err := c.GetQuote(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	if q != nil {
		t.Errorf("quote = %+v, want nil for all-zero response", q)
	}
}

func TestGetQuoteNotConfigured(t *testing.T) {
	c := NewClient("")

	_, err := c.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGetCompanyProfile(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/profile2" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"name": "Apple Inc",
			"finnhubIndustry": "Technology",
			"marketCapitalization": 2800000,
			"shareOutstanding": 15400,
			"employeeTotal": 161000,
			"weburl": "https://www.apple.com/",
			"logo": "https://static.finnhub.io/logo/aapl.png"
		}`))
	})

	p, err := c.GetCompanyProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Apple Inc" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Description != "Market Cap: 2800000M" {
		t.Errorf("description = %q", p.Description)
	}
	if p.Employees != 161000 {
		t.Errorf("employees = %d", p.Employees)
	}
}

func TestGetCompanyProfileUnknownSymbol(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	p, err := c.GetCompanyProfile(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Errorf("profile = %+v, want nil for empty upstream object", p)
	}
}

func TestGetAnalystRecommendations(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/recommendation" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"buy": 20, "hold": 8, "sell": 2, "strongBuy": 12, "strongSell": 1, "period": "2026-03-01"},
			{"buy": 18, "hold": 9, "sell": 3, "strongBuy": 10, "strongSell": 2, "period": "2026-02-01"}
		]`))
	})

	rec, err := c.GetAnalystRecommendations(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	// The first entry is the latest period.
	if rec.Period != "2026-03-01" {
		t.Errorf("period = %q, want latest", rec.Period)
	}
	if rec.StrongBuy != 12 || rec.Buy != 20 {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Total() != 43 {
		t.Errorf("total = %d, want 43", rec.Total())
	}
}

func TestGetAnalystRecommendationsNoCoverage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	rec, err := c.GetAnalystRecommendations(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}

func TestGetPriceTarget(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/price-target" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"targetHigh": 250, "targetLow": 160, "targetMean": 210, "targetMedian": 205, "numberOfAnalysts": 32}`))
	})

	target, err := c.GetPriceTarget(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if target.TargetMean != 210 || target.NumberOfAnalysts != 32 {
		t.Errorf("target = %+v", target)
	}
	if target.Currency != "USD" {
		t.Errorf("currency = %q, want USD", target.Currency)
	}
}

func TestGetPriceTargetNoCoverage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"targetHigh": 0, "targetLow": 0, "targetMean": 0, "targetMedian": 0, "numberOfAnalysts": 0}`))
	})

	target, err := c.GetPriceTarget(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatal(err)
	}
	if target != nil {
		t.Errorf("target = %+v, want nil", target)
	}
}

func TestAPIErrorSurface(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "API limit reached"}`, http.StatusTooManyRequests)
	})

	_, err := c.GetQuote(context.Background(), "AAPL")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}
