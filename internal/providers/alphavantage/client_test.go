package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestGetHistoricalBarsNotConfigured(t *testing.T) {
	c := NewClient("")

	_, err := c.GetHistoricalBars(context.Background(), "AAPL", models.Timeframe1M)
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGetHistoricalBarsDaily(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("function = %q", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Error("missing apikey param")
		}
		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "AAPL"},
			"Time Series (Daily)": {
				"2026-03-02": {"1. open": "101", "2. high": "103", "3. low": "100", "4. close": "102", "5. volume": "6000"},
				"2026-03-01": {"1. open": "100", "2. high": "102", "3. low": "99", "4. close": "101", "5. volume": "5000"}
			}
		}`))
	})

	bars, err := c.GetHistoricalBars(context.Background(), "AAPL", models.Timeframe1M)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	// Map iteration order is random; NormalizeBars restores chronology.
	if bars[0].Close != 101 || bars[1].Close != 102 {
		t.Errorf("bars out of order: %+v", bars)
	}
	if bars[1].Volume != 6000 {
		t.Errorf("volume = %v", bars[1].Volume)
	}
}

func TestGetHistoricalBarsIntraday(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "TIME_SERIES_INTRADAY" {
			t.Errorf("function = %q", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("interval") != "15min" {
			t.Errorf("interval = %q", r.URL.Query().Get("interval"))
		}
		w.Write([]byte(`{
			"Time Series (15min)": {
				"2026-03-02 15:45:00": {"1. open": "100", "2. high": "101", "3. low": "99", "4. close": "100.5", "5. volume": "1000"}
			}
		}`))
	})

	bars, err := c.GetHistoricalBars(context.Background(), "AAPL", models.Timeframe1D)
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 || bars[0].Close != 100.5 {
		t.Errorf("bars = %+v", bars)
	}
}

func TestGetHistoricalBarsRateLimitNote(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	bars, err := c.GetHistoricalBars(context.Background(), "AAPL", models.Timeframe1M)
	if err != nil {
		t.Fatal(err)
	}
	if bars != nil {
		t.Errorf("bars = %v, want nil when the series key is absent", bars)
	}
}

func TestGetQuoteFromDailyBars(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Time Series (Daily)": {
				"2026-03-01": {"1. open": "100", "2. high": "102", "3. low": "99", "4. close": "100", "5. volume": "5000"},
				"2026-03-02": {"1. open": "100", "2. high": "105", "3. low": "99", "4. close": "104", "5. volume": "6000"}
			}
		}`))
	})

	q, err := c.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if q.Price != 104 || q.PreviousClose != 100 {
		t.Errorf("quote = %+v", q)
	}
	if q.ChangePercent != 4 {
		t.Errorf("changePercent = %v, want 4", q.ChangePercent)
	}
}

func TestSearchSymbols(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "SYMBOL_SEARCH" {
			t.Errorf("function = %q", r.URL.Query().Get("function"))
		}
		if r.URL.Query().Get("keywords") != "apple" {
			t.Errorf("keywords = %q", r.URL.Query().Get("keywords"))
		}
		w.Write([]byte(`{
			"bestMatches": [{
				"1. symbol": "AAPL",
				"2. name": "Apple Inc.",
				"3. type": "Equity",
				"4. region": "United States",
				"5. marketOpen": "09:30",
				"6. marketClose": "16:00",
				"7. timezone": "UTC-04",
				"8. currency": "USD",
				"9. matchScore": "0.7143"
			}]
		}`))
	})

	results, err := c.SearchSymbols(context.Background(), "apple")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.Symbol != "AAPL" || r.Name != "Apple Inc." || r.MatchScore != 0.7143 {
		t.Errorf("result = %+v", r)
	}
}

func TestSearchSymbolsNotConfigured(t *testing.T) {
	c := NewClient("")

	_, err := c.SearchSymbols(context.Background(), "apple")
	if !errors.Is(err, providers.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}
