package providers

import (
	"sort"
	"strings"
	"time"

	"github.com/tickerdeck/tickerdeck/internal/models"
)

// NormalizeBars sorts bars ascending by timestamp and drops duplicate
// timestamps, keeping the last occurrence. Providers call this before
// returning any bar series.
func NormalizeBars(bars []models.Bar) []models.Bar {
	if len(bars) == 0 {
		return bars
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp < bars[j].Timestamp
	})

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Timestamp == b.Timestamp {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// QuoteFromBars synthesizes a quote from the two most recent bars of a
// series. Several providers have no dedicated quote endpoint and derive the
// quote this way: the latest bar supplies price/OHLV, the bar before it
// supplies the previous close.
func QuoteFromBars(symbol string, bars []models.Bar) *models.Quote {
	if len(bars) == 0 {
		return nil
	}

	latest := bars[len(bars)-1]
	previous := latest
	if len(bars) > 1 {
		previous = bars[len(bars)-2]
	}

	change := latest.Close - previous.Close
	changePercent := 0.0
	if previous.Close > 0 {
		changePercent = change / previous.Close * 100
	}

	return &models.Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         latest.Close,
		Change:        change,
		ChangePercent: changePercent,
		High:          latest.High,
		Low:           latest.Low,
		Open:          latest.Open,
		PreviousClose: previous.Close,
		Volume:        latest.Volume,
		Timestamp:     latest.Timestamp,
	}
}

// TimeframeStart returns the inclusive start of the date range covering a
// timeframe, widened for non-trading days where the window is short.
func TimeframeStart(now time.Time, tf models.Timeframe) time.Time {
	switch tf {
	case models.Timeframe1D:
		return now.AddDate(0, 0, -1)
	case models.Timeframe5D:
		// 7 calendar days to cover weekends
		return now.AddDate(0, 0, -7)
	case models.Timeframe1W:
		return now.AddDate(0, 0, -7)
	case models.Timeframe1M:
		return now.AddDate(0, 0, -30)
	case models.Timeframe6M:
		return now.AddDate(0, 0, -180)
	case models.TimeframeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	case models.Timeframe1Y:
		return now.AddDate(0, 0, -365)
	case models.Timeframe5Y:
		return now.AddDate(0, 0, -5*365)
	default:
		return now.AddDate(0, 0, -30)
	}
}
