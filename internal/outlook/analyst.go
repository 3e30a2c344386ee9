package outlook

import (
	"fmt"
	"math"

	"github.com/tickerdeck/tickerdeck/internal/models"
)

// Sentiment summaries produced by the rule-based engines.
const (
	SummaryBullish = "Bullish"
	SummaryBearish = "Bearish"
	SummaryNeutral = "Neutral"
)

// AnalystEngine is the primary rule-based engine. It scores analyst
// recommendation ratios, price-target upside, daily momentum, and intraday
// volatility into a bounded confidence with a human-readable rationale.
type AnalystEngine struct{}

// NewAnalystEngine creates the rule-based analyst engine.
func NewAnalystEngine() *AnalystEngine {
	return &AnalystEngine{}
}

func (e *AnalystEngine) Name() string    { return "AnalystEngine" }
func (e *AnalystEngine) Version() string { return "1.0.0" }

// GenerateOutlook applies the rules in a fixed order. A recommendation
// driven Bullish can still be flipped to Bearish by the price-target
// downside check; the reverse promotion only happens from Neutral.
func (e *AnalystEngine) GenerateOutlook(symbol string, quote *models.Quote, recommendations *models.AnalystRecommendation, priceTarget *models.PriceTarget) *models.OutlookPrediction {
	var rationale []string
	confidence := 0.5
	summary := SummaryNeutral

	if recommendations != nil {
		total := recommendations.Total()
		if total > 0 {
			bullishRatio := float64(recommendations.StrongBuy+recommendations.Buy) / float64(total)
			bearishRatio := float64(recommendations.StrongSell+recommendations.Sell) / float64(total)

			if bullishRatio > 0.6 {
				summary = SummaryBullish
				confidence += 0.2
				rationale = append(rationale, fmt.Sprintf("%d%% of analysts recommend buying", int(math.Round(bullishRatio*100))))
			} else if bearishRatio > 0.4 {
				summary = SummaryBearish
				confidence += 0.1
				rationale = append(rationale, fmt.Sprintf("%d%% of analysts recommend selling", int(math.Round(bearishRatio*100))))
			} else {
				rationale = append(rationale, "Mixed analyst sentiment")
			}

			if total >= 10 {
				confidence += 0.1
				rationale = append(rationale, fmt.Sprintf("Strong analyst coverage with %d recommendations", total))
			} else if total < 5 {
				confidence -= 0.1
				rationale = append(rationale, fmt.Sprintf("Limited analyst coverage with only %d recommendations", total))
			}
		}
	}

	if priceTarget != nil && quote.Price > 0 {
		upside := (priceTarget.TargetMean - quote.Price) / quote.Price

		if upside > 0.15 {
			if summary == SummaryNeutral {
				summary = SummaryBullish
			}
			confidence += 0.15
			rationale = append(rationale, fmt.Sprintf("Price target suggests %d%% upside potential", int(math.Round(upside*100))))
		} else if upside < -0.1 {
			summary = SummaryBearish
			confidence += 0.1
			rationale = append(rationale, fmt.Sprintf("Price target suggests %d%% downside risk", int(math.Round(math.Abs(upside)*100))))
		} else {
			rationale = append(rationale, "Price target suggests limited movement")
		}

		if priceTarget.NumberOfAnalysts >= 8 {
			confidence += 0.05
		}
	}

	if math.Abs(quote.ChangePercent) > 5 {
		if quote.ChangePercent > 0 {
			rationale = append(rationale, fmt.Sprintf("Strong positive momentum with %.1f%% daily gain", quote.ChangePercent))
		} else {
			rationale = append(rationale, fmt.Sprintf("Negative momentum with %.1f%% daily decline", quote.ChangePercent))
		}
		confidence += 0.05
	}

	if quote.Price > 0 {
		volatility := math.Abs(quote.High-quote.Low) / quote.Price
		if volatility > 0.05 {
			confidence -= 0.05
			rationale = append(rationale, "High intraday volatility indicates uncertainty")
		}
	}

	confidence = clamp(confidence)

	if len(rationale) == 0 {
		rationale = append(rationale, "Insufficient data for detailed analysis")
	}

	return &models.OutlookPrediction{
		Symbol:     symbol,
		Summary:    summary,
		Confidence: confidence,
		Rationale:  rationale,
		Timeframe:  predictionTimeframe,
		Version:    e.Version(),
		Engine:     e.Name(),
	}
}
