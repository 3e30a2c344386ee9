package market

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tickerdeck/tickerdeck/internal/cache"
	"github.com/tickerdeck/tickerdeck/internal/models"
)

// ErrUnknownEngine is returned when an outlook request names an engine
// the registry does not carry. The HTTP boundary maps it to a client error.
type ErrUnknownEngine struct {
	Engine string
}

func (e *ErrUnknownEngine) Error() string {
	return fmt.Sprintf("unknown outlook engine: %s", e.Engine)
}

// GetAnalystData fetches recommendations and price targets concurrently.
// Either half may be missing; the result is nil only when both are.
func (s *Service) GetAnalystData(ctx context.Context, symbol string) (*models.AnalystData, error) {
	key := cache.AnalystKey(symbol)

	var cached models.AnalystData
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		recommendation *models.AnalystRecommendation
		priceTarget    *models.PriceTarget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recommendation = s.fetchRecommendations(gctx, symbol)
		return nil
	})
	g.Go(func() error {
		priceTarget = s.fetchPriceTarget(gctx, symbol)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if recommendation == nil && priceTarget == nil {
		return nil, nil
	}

	data := &models.AnalystData{
		Recommendations: recommendation,
		PriceTarget:     priceTarget,
	}
	s.cache.Set(ctx, key, data, cache.TTLAnalyst)
	return data, nil
}

func (s *Service) fetchRecommendations(ctx context.Context, symbol string) *models.AnalystRecommendation {
	for _, p := range s.analystChain {
		rec, err := p.GetAnalystRecommendations(ctx, symbol)
		if err != nil {
			s.logAttemptFailure("analyst.recommendations", p.Name(), symbol, err)
			continue
		}
		if rec != nil {
			return rec
		}
	}
	return nil
}

func (s *Service) fetchPriceTarget(ctx context.Context, symbol string) *models.PriceTarget {
	for _, p := range s.analystChain {
		target, err := p.GetPriceTarget(ctx, symbol)
		if err != nil {
			s.logAttemptFailure("analyst.pricetarget", p.Name(), symbol, err)
			continue
		}
		if target != nil {
			return target
		}
	}
	return nil
}

// GetOutlook produces a prediction for symbol using the named engine.
// The quote and the analyst data are fetched concurrently; a missing
// quote makes a prediction impossible and yields nil, nil. Missing
// analyst data does not: engines degrade to lower confidence instead.
func (s *Service) GetOutlook(ctx context.Context, symbol, engineName string) (*models.OutlookPrediction, error) {
	engine, err := s.engines.Get(engineName)
	if err != nil {
		return nil, &ErrUnknownEngine{Engine: engineName}
	}

	key := cache.OutlookKey(symbol, engineName)

	var cached models.OutlookPrediction
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var (
		quote   *models.Quote
		analyst *models.AnalystData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quote, err = s.GetQuote(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		analyst, err = s.GetAnalystData(gctx, symbol)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if quote == nil {
		return nil, nil
	}

	var (
		recommendation *models.AnalystRecommendation
		priceTarget    *models.PriceTarget
	)
	if analyst != nil {
		recommendation = analyst.Recommendations
		priceTarget = analyst.PriceTarget
	}

	prediction := engine.GenerateOutlook(symbol, quote, recommendation, priceTarget)
	s.cache.Set(ctx, key, prediction, cache.TTLOutlook)
	return prediction, nil
}

// EngineNames lists the registered outlook engines.
func (s *Service) EngineNames() []string {
	return s.engines.Names()
}
