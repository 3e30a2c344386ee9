package outlook

import (
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// ModelEngine is a placeholder for the future ML model. It always
// returns the same pending prediction.
type ModelEngine struct{}

// NewModelEngine creates the stub model engine.
func NewModelEngine() *ModelEngine {
	return &ModelEngine{}
}

func (e *ModelEngine) Name() string    { return "ModelEngine" }
func (e *ModelEngine) Version() string { return "1.0.0" }

// GenerateOutlook always returns the pending placeholder.
func (e *ModelEngine) GenerateOutlook(symbol string, _ *models.Quote, _ *models.AnalystRecommendation, _ *models.PriceTarget) *models.OutlookPrediction {
	return &models.OutlookPrediction{
		Symbol:     symbol,
		Summary:    "Model predictions coming soon",
		Confidence: 0.5,
		Rationale:  []string{"ML model integration in development"},
		Timeframe:  predictionTimeframe,
		Version:    e.Version(),
		Engine:     e.Name(),
	}
}
