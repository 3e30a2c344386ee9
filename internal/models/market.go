// Package models defines the canonical data structures for tickerdeck.
// Every provider normalizes its wire format into these shapes.
package models

// Quote holds a point-in-time price snapshot for a symbol.
// Constructed fresh on each successful provider call (or synthesized from
// the two most recent bars); never mutated after construction.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previousClose"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	Timestamp     int64   `json:"timestamp"` // epoch milliseconds
}

// Bar is one OHLCV sample. Timestamp is the bar's close time in epoch
// milliseconds. A bar series for one symbol+timeframe is sorted ascending
// by timestamp with no duplicate timestamps.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// CompanyProfile holds descriptive company data. Providers that cannot
// supply a real profile return a degraded stub (symbol-derived name),
// never an error.
type CompanyProfile struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Employees   int     `json:"employees,omitempty"`
	MarketCap   float64 `json:"marketCap,omitempty"`
	Website     string  `json:"website,omitempty"`
	Logo        string  `json:"logo,omitempty"`
}

// SearchResult is one symbol-search match. MatchScore is 1.0 for an exact
// (case-insensitive) symbol match, lower for partial matches.
type SearchResult struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Region      string  `json:"region"`
	MarketOpen  string  `json:"marketOpen"`
	MarketClose string  `json:"marketClose"`
	Timezone    string  `json:"timezone"`
	Currency    string  `json:"currency"`
	MatchScore  float64 `json:"matchScore"`
}

// AnalystRecommendation holds analyst rating counts for one period.
// Counts are non-negative; the total may be zero (no coverage).
type AnalystRecommendation struct {
	Symbol     string `json:"symbol"`
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
	Period     string `json:"period"`
}

// Total returns the total recommendation count across all ratings.
func (r *AnalystRecommendation) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// PriceTarget holds consensus analyst price targets for a symbol.
type PriceTarget struct {
	Symbol           string  `json:"symbol"`
	TargetHigh       float64 `json:"targetHigh"`
	TargetLow        float64 `json:"targetLow"`
	TargetMean       float64 `json:"targetMean"`
	TargetMedian     float64 `json:"targetMedian"`
	NumberOfAnalysts int     `json:"numberOfAnalysts"`
	Currency         string  `json:"currency"`
}

// AnalystData is the combined analyst payload served by the analyst
// endpoint. Either field may be nil when the provider has no coverage.
type AnalystData struct {
	Recommendations *AnalystRecommendation `json:"recommendations"`
	PriceTarget     *PriceTarget           `json:"priceTarget"`
}

// OutlookPrediction is a derived sentiment judgment produced by an outlook
// engine. Immutable once produced; recomputed on re-request, never patched.
type OutlookPrediction struct {
	Symbol     string   `json:"symbol"`
	Summary    string   `json:"summary"`
	Confidence float64  `json:"confidence"` // clamped to [0.1, 0.95]
	Rationale  []string `json:"rationale"`  // never empty
	Timeframe  string   `json:"timeframe"`
	Version    string   `json:"version"`
	Engine     string   `json:"engine"`
}
