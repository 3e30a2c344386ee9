package models

import "fmt"

// Timeframe is the requested historical window for chart data.
type Timeframe string

const (
	Timeframe1D  Timeframe = "1D"
	Timeframe5D  Timeframe = "5D"
	Timeframe1W  Timeframe = "1W"
	Timeframe1M  Timeframe = "1M"
	Timeframe6M  Timeframe = "6M"
	TimeframeYTD Timeframe = "YTD"
	Timeframe1Y  Timeframe = "1Y"
	Timeframe5Y  Timeframe = "5Y"
)

// Timeframes lists all valid timeframes in display order.
var Timeframes = []Timeframe{
	Timeframe1D, Timeframe5D, Timeframe1W, Timeframe1M,
	Timeframe6M, TimeframeYTD, Timeframe1Y, Timeframe5Y,
}

// ParseTimeframe validates a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	for _, tf := range Timeframes {
		if string(tf) == s {
			return tf, nil
		}
	}
	return "", fmt.Errorf("invalid timeframe: %q", s)
}

func (t Timeframe) String() string {
	return string(t)
}

// Intraday reports whether the timeframe uses intraday bars.
func (t Timeframe) Intraday() bool {
	return t == Timeframe1D || t == Timeframe5D
}
