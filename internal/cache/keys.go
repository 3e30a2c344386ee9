package cache

import (
	"strings"
	"time"

	"github.com/tickerdeck/tickerdeck/internal/models"
)

// TTL policy by data category. TTL inversely tracks data volatility:
// quotes move every few seconds but 30s bounds provider call volume, while
// longer-horizon chart data is effectively static within an hour.
const (
	TTLQuote         = 30 * time.Second
	TTLChartIntraday = 60 * time.Second
	TTLChartShort    = 5 * time.Minute
	TTLChartLong     = time.Hour
	TTLCompany       = time.Hour
	TTLSearch        = 5 * time.Minute
	TTLOutlook       = 30 * time.Minute
	TTLAnalyst       = time.Hour
)

// ChartTTL returns the TTL for a chart timeframe.
func ChartTTL(tf models.Timeframe) time.Duration {
	switch tf {
	case models.Timeframe1D:
		return TTLChartIntraday
	case models.Timeframe5D:
		return TTLChartShort
	default:
		return TTLChartLong
	}
}

// QuoteKey builds the cache key for a quote.
func QuoteKey(symbol string) string {
	return "quote:" + strings.ToUpper(symbol)
}

// ChartKey builds the cache key for a bar series.
func ChartKey(symbol string, tf models.Timeframe) string {
	return "chart:" + strings.ToUpper(symbol) + ":" + tf.String()
}

// CompanyKey builds the cache key for a company profile.
func CompanyKey(symbol string) string {
	return "company:" + strings.ToUpper(symbol)
}

// SearchKey builds the cache key for a symbol search.
func SearchKey(query string) string {
	return "search:" + strings.ToLower(query)
}

// AnalystKey builds the cache key for combined analyst data.
func AnalystKey(symbol string) string {
	return "analyst:" + strings.ToUpper(symbol)
}

// OutlookKey builds the cache key for an outlook prediction.
func OutlookKey(symbol, engine string) string {
	return "outlook:" + strings.ToUpper(symbol) + ":" + engine
}
