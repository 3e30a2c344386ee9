package alpaca

import (
	"context"
	"strings"

	"github.com/tickerdeck/tickerdeck/internal/models"
	"github.com/tickerdeck/tickerdeck/internal/providers"
)

// directoryEntry is one symbol in the offline search directory.
type directoryEntry struct {
	Symbol string
	Name   string
}

// symbolDirectory is the static directory used for offline symbol search.
// Alpaca has no search endpoint, so searches match against this list.
var symbolDirectory = []directoryEntry{
	// Major tech
	{"AAPL", "Apple Inc."},
	{"GOOGL", "Alphabet Inc. Class A"},
	{"GOOG", "Alphabet Inc. Class C"},
	{"MSFT", "Microsoft Corporation"},
	{"AMZN", "Amazon.com Inc."},
	{"META", "Meta Platforms Inc."},
	{"TSLA", "Tesla Inc."},
	{"NFLX", "Netflix Inc."},
	{"NVDA", "NVIDIA Corporation"},
	{"AMD", "Advanced Micro Devices Inc."},
	{"INTC", "Intel Corporation"},
	{"CRM", "Salesforce Inc."},
	{"ORCL", "Oracle Corporation"},
	{"IBM", "International Business Machines"},
	// Financial
	{"JPM", "JPMorgan Chase & Co."},
	{"BAC", "Bank of America Corporation"},
	{"WFC", "Wells Fargo & Company"},
	{"GS", "Goldman Sachs Group Inc."},
	{"MS", "Morgan Stanley"},
	// Healthcare
	{"JNJ", "Johnson & Johnson"},
	{"PFE", "Pfizer Inc."},
	{"MRNA", "Moderna Inc."},
	{"UNH", "UnitedHealth Group Inc."},
	// Consumer
	{"WMT", "Walmart Inc."},
	{"KO", "Coca-Cola Company"},
	{"PEP", "PepsiCo Inc."},
	{"NKE", "Nike Inc."},
	// ETFs
	{"SPY", "SPDR S&P 500 ETF Trust"},
	{"QQQ", "Invesco QQQ Trust"},
	{"IWM", "iShares Russell 2000 ETF"},
	{"VTI", "Vanguard Total Stock Market ETF"},
	{"VOO", "Vanguard S&P 500 ETF"},
}

// SearchSymbols matches the query against the static symbol directory.
// Matching is a case-insensitive substring test on symbol and name. An
// exact symbol match scores 1.0, partial matches 0.8.
func (c *Client) SearchSymbols(_ context.Context, query string) ([]models.SearchResult, error) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return nil, nil
	}

	var results []models.SearchResult
	for _, entry := range symbolDirectory {
		if !strings.Contains(strings.ToLower(entry.Symbol), term) &&
			!strings.Contains(strings.ToLower(entry.Name), term) {
			continue
		}

		score := 0.8
		if strings.EqualFold(entry.Symbol, term) {
			score = 1.0
		}

		results = append(results, models.SearchResult{
			Symbol:      entry.Symbol,
			Name:        entry.Name,
			Type:        "Equity",
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
