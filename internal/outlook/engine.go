// Package outlook computes derived sentiment predictions from quote and
// analyst data. Engines are pure: identical inputs always produce
// identical outputs, so predictions cache like any other artifact.
package outlook

import (
	"fmt"
	"sort"

	"github.com/tickerdeck/tickerdeck/internal/models"
)

// Confidence bounds for every engine's output.
const (
	MinConfidence = 0.1
	MaxConfidence = 0.95
)

// predictionTimeframe is the horizon label attached to all predictions.
const predictionTimeframe = "30 days"

// Engine produces an outlook prediction for a symbol. Recommendations and
// priceTarget may be nil when the analyst provider has no coverage.
type Engine interface {
	Name() string
	Version() string
	GenerateOutlook(symbol string, quote *models.Quote, recommendations *models.AnalystRecommendation, priceTarget *models.PriceTarget) *models.OutlookPrediction
}

// Registry maps engine names to engines.
type Registry map[string]Engine

// NewRegistry returns the default engine set.
func NewRegistry() Registry {
	return Registry{
		"analyst": NewAnalystEngine(),
		"model":   NewModelEngine(),
		"blended": NewBlendedEngine(),
	}
}

// Get returns the engine for a name.
func (r Registry) Get(name string) (Engine, error) {
	engine, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown outlook engine: %q", name)
	}
	return engine, nil
}

// Names returns the registered engine names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clamp bounds confidence to [MinConfidence, MaxConfidence].
func clamp(confidence float64) float64 {
	if confidence < MinConfidence {
		return MinConfidence
	}
	if confidence > MaxConfidence {
		return MaxConfidence
	}
	return confidence
}
