package optimizer

import "github.com/optilens/replenish/internal/domain"

// Thresholds for grouping the collected forecasts. Reporting only; none of
// these feed back into allocation.
const (
	seasonalityUpFactor   = 1.05
	seasonalityDownFactor = 0.95
	highConfidence        = 0.8
	lowConfidence         = 0.5
	growingShareThreshold = 0.3
)

// buildInsights groups the forecasts already gathered for the run. Returns
// nil when no SKU carried a forecast, so static runs emit no insights block.
func buildInsights(ranked []RankedSKU) *domain.Insights {
	forecasted := 0
	for _, r := range ranked {
		if r.Forecast != nil {
			forecasted++
		}
	}
	if forecasted == 0 {
		return nil
	}

	ins := &domain.Insights{
		Trends:            map[domain.Trend][]string{},
		SeasonalityImpact: map[string][]string{},
		ConfidenceLevels:  map[string][]string{},
		Recommendations:   []string{},
	}

	for _, r := range ranked {
		f := r.Forecast
		if f == nil {
			continue
		}
		code := r.SKU.Code

		ins.Trends[f.Trend] = append(ins.Trends[f.Trend], code)

		if f.SeasonalityFactor > seasonalityUpFactor {
			ins.SeasonalityImpact["increasing"] = append(ins.SeasonalityImpact["increasing"], code)
		} else if f.SeasonalityFactor < seasonalityDownFactor {
			ins.SeasonalityImpact["decreasing"] = append(ins.SeasonalityImpact["decreasing"], code)
		}

		if f.Confidence > highConfidence {
			ins.ConfidenceLevels["high"] = append(ins.ConfidenceLevels["high"], code)
		} else if f.Confidence < lowConfidence {
			ins.ConfidenceLevels["low"] = append(ins.ConfidenceLevels["low"], code)
		}
	}

	if float64(len(ins.Trends[domain.TrendIncreasing])) > float64(len(ranked))*growingShareThreshold {
		ins.Recommendations = append(ins.Recommendations, "increase order volume for products with growing demand")
	}
	if len(ins.SeasonalityImpact["increasing"]) > 0 {
		ins.Recommendations = append(ins.Recommendations, "account for seasonal demand uplift")
	}
	if len(ins.ConfidenceLevels["low"]) > 0 {
		ins.Recommendations = append(ins.Recommendations, "collect more history for low-confidence forecasts")
	}

	return ins
}
