package forecast

import (
	"context"
	"time"

	"github.com/optilens/replenish/internal/domain"
)

// Fallback heuristics, applied when the forecasting collaborator is down or
// the series is too short. Deterministic for a fixed clock.
const (
	minSamples = 7

	shortSeriesConsumption = 1.0
	shortSeriesConfidence  = 0.5
	fallbackConfidence     = 0.8

	// Week-over-week bands that separate a trend from noise.
	trendUpRatio   = 1.1
	trendDownRatio = 0.9

	winterSeasonality = 0.9
	summerSeasonality = 1.1
)

// FallbackProvider estimates demand from the trailing consumption history.
// It never fails; the planner uses it directly when no collaborator is
// configured and as the substitute when one is unavailable.
type FallbackProvider struct {
	now func() time.Time
}

// NewFallbackProvider builds a fallback estimator. now is injected so plans
// stay reproducible under test; nil means time.Now.
func NewFallbackProvider(now func() time.Time) *FallbackProvider {
	if now == nil {
		now = time.Now
	}
	return &FallbackProvider{now: now}
}

// Forecast implements Provider.
func (p *FallbackProvider) Forecast(_ context.Context, _ string, history []float64) (domain.ForecastResult, error) {
	if len(history) < minSamples {
		return domain.ForecastResult{
			PredictedDailyConsumption: shortSeriesConsumption,
			Confidence:                shortSeriesConfidence,
			Trend:                     domain.TrendStable,
			SeasonalityFactor:         1.0,
		}, nil
	}

	recent := mean(history[len(history)-minSamples:])
	older := recent
	if len(history) >= 2*minSamples {
		older = mean(history[len(history)-2*minSamples : len(history)-minSamples])
	}

	trend := domain.TrendStable
	switch {
	case older > 0 && recent > older*trendUpRatio:
		trend = domain.TrendIncreasing
	case older > 0 && recent < older*trendDownRatio:
		trend = domain.TrendDecreasing
	}

	seasonality := seasonalityFor(p.now().Month())

	return domain.ForecastResult{
		PredictedDailyConsumption: recent * seasonality,
		Confidence:                fallbackConfidence,
		Trend:                     trend,
		SeasonalityFactor:         seasonality,
	}, nil
}

func seasonalityFor(m time.Month) float64 {
	switch m {
	case time.December, time.January, time.February:
		return winterSeasonality
	case time.June, time.July, time.August:
		return summerSeasonality
	}
	return 1.0
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
