package outlook

import (
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// blendFactor discounts the analyst engine's confidence until real model
// output can be mixed in.
const blendFactor = 0.8

// BlendedEngine delegates to the analyst engine and discounts its
// confidence, reserving headroom for the model engine once it exists.
type BlendedEngine struct {
	analyst *AnalystEngine
	model   *ModelEngine
}

// NewBlendedEngine creates the blended engine.
func NewBlendedEngine() *BlendedEngine {
	return &BlendedEngine{
		analyst: NewAnalystEngine(),
		model:   NewModelEngine(),
	}
}

func (e *BlendedEngine) Name() string    { return "BlendedEngine" }
func (e *BlendedEngine) Version() string { return "1.0.0" }

// GenerateOutlook runs the analyst engine, scales its confidence by the
// blend factor, and appends exactly one rationale line noting the blend.
// The summary passes through unchanged.
func (e *BlendedEngine) GenerateOutlook(symbol string, quote *models.Quote, recommendations *models.AnalystRecommendation, priceTarget *models.PriceTarget) *models.OutlookPrediction {
	base := e.analyst.GenerateOutlook(symbol, quote, recommendations, priceTarget)

	rationale := make([]string, 0, len(base.Rationale)+1)
	rationale = append(rationale, base.Rationale...)
	rationale = append(rationale, "Blended with model predictions (coming soon)")

	return &models.OutlookPrediction{
		Symbol:     symbol,
		Summary:    base.Summary,
		Confidence: base.Confidence * blendFactor,
		Rationale:  rationale,
		Timeframe:  predictionTimeframe,
		Version:    e.Version(),
		Engine:     e.Name(),
	}
}
