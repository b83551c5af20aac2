// internal/optimizer/ranker.go
package optimizer

import (
	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/rules"
)

// NoThreatSentinelDays stands in for "no forecasted stockout" when a SKU has
// zero consumption.
const NoThreatSentinelDays = 999

// DefaultThreatWindowDays is the runway below which a SKU counts as a
// stockout threat.
const DefaultThreatWindowDays = 30

// Weights are the priority-score tuning knobs. The numbers come from the
// production tuning of the source system; override via config, not by
// editing call sites.
type Weights struct {
	BasePriority           float64
	ConfidenceWeight       float64
	TrendIncreasingBonus   float64
	TrendDecreasingPenalty float64
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		BasePriority:           1000,
		ConfidenceWeight:       100,
		TrendIncreasingBonus:   50,
		TrendDecreasingPenalty: -20,
	}
}

// RankedSKU is one SKU's urgency analysis. It is a value snapshot: the
// allocator copies it again before projecting stock, so ranking output is
// never mutated.
type RankedSKU struct {
	SKU              domain.SKU
	Rule             domain.CategoryRule
	Consumption      float64
	Forecast         *domain.ForecastResult
	DaysUntilOoS     int
	RequiredStock    float64
	RecommendedOrder float64
	PriorityScore    float64
	Criticality      domain.Criticality
}

// Ranker computes days-until-stockout, recommended order and priority per SKU.
type Ranker struct {
	weights Weights
}

func NewRanker(w Weights) *Ranker {
	return &Ranker{weights: w}
}

// Rank analyzes one SKU under the given rule and consumption estimate.
// combined selects the delivery lane for the required-stock target.
func (r *Ranker) Rank(sku domain.SKU, rule domain.CategoryRule, est forecast.Estimate, combined bool) RankedSKU {
	consumption := est.DailyConsumption
	if consumption <= 0 {
		consumption = sku.DailyConsumption
	}

	days := NoThreatSentinelDays
	if consumption > 0 {
		days = int(sku.CurrentStock / consumption)
	}

	probe := sku
	probe.DailyConsumption = consumption
	required := rules.RequiredStock(probe, rule, combined)
	recommended := required - sku.CurrentStock
	if recommended < 0 {
		recommended = 0
	}

	score := r.weights.BasePriority - float64(days)
	if est.Forecast != nil {
		score += est.Forecast.Confidence * r.weights.ConfidenceWeight
		switch est.Forecast.Trend {
		case domain.TrendIncreasing:
			score += r.weights.TrendIncreasingBonus
		case domain.TrendDecreasing:
			score += r.weights.TrendDecreasingPenalty
		}
	}

	return RankedSKU{
		SKU:              sku,
		Rule:             rule,
		Consumption:      consumption,
		Forecast:         est.Forecast,
		DaysUntilOoS:     days,
		RequiredStock:    required,
		RecommendedOrder: recommended,
		PriorityScore:    score,
		Criticality:      CriticalityFor(days),
	}
}

// CriticalityFor maps days until stockout onto the coarse urgency tiers.
func CriticalityFor(daysUntilOoS int) domain.Criticality {
	switch {
	case daysUntilOoS <= 0:
		return domain.CriticalityCritical
	case daysUntilOoS <= 7:
		return domain.CriticalityHigh
	case daysUntilOoS <= DefaultThreatWindowDays:
		return domain.CriticalityMedium
	default:
		return domain.CriticalityLow
	}
}
