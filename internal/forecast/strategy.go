package forecast

import (
	"context"

	"github.com/optilens/replenish/internal/domain"
	"github.com/rs/zerolog/log"
)

// Estimate is the per-SKU consumption estimate the optimizer works with.
// Forecast is nil when no forecast informed the estimate; the ranker then
// skips the confidence and trend bonuses.
type Estimate struct {
	DailyConsumption float64
	Forecast         *domain.ForecastResult
}

// ConsumptionStrategy decides how the planner derives effective daily
// consumption per SKU. The source system grew three near-identical
// optimizers that differed only here; this is the single switch point.
type ConsumptionStrategy interface {
	Estimate(ctx context.Context, sku domain.SKU, history []float64) (Estimate, error)
}

// StaticConsumptionStrategy uses the snapshot's own consumption figure.
type StaticConsumptionStrategy struct{}

func (StaticConsumptionStrategy) Estimate(_ context.Context, sku domain.SKU, _ []float64) (Estimate, error) {
	return Estimate{DailyConsumption: sku.DailyConsumption}, nil
}

// ForecastedConsumptionStrategy asks a Provider and falls back to the
// trailing-average estimate when the provider is unavailable. Provider
// failure is never fatal to the plan.
type ForecastedConsumptionStrategy struct {
	Provider Provider
	Fallback *FallbackProvider
}

func NewForecastedStrategy(provider Provider, fallback *FallbackProvider) *ForecastedConsumptionStrategy {
	if fallback == nil {
		fallback = NewFallbackProvider(nil)
	}
	return &ForecastedConsumptionStrategy{Provider: provider, Fallback: fallback}
}

func (s *ForecastedConsumptionStrategy) Estimate(ctx context.Context, sku domain.SKU, history []float64) (Estimate, error) {
	result, err := s.Provider.Forecast(ctx, sku.Code, history)
	if err != nil {
		log.Warn().Err(err).Str("code", sku.Code).Msg("forecast unavailable, using fallback estimate")
		result, _ = s.Fallback.Forecast(ctx, sku.Code, history)
	}

	consumption := result.PredictedDailyConsumption
	if consumption <= 0 {
		consumption = sku.DailyConsumption
	}
	return Estimate{DailyConsumption: consumption, Forecast: &result}, nil
}
