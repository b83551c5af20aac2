package optimizer

import (
	"testing"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
)

func dailyLensRule() domain.CategoryRule {
	return domain.CategoryRule{
		MinOrderVolume:       3000,
		Multiple:             30,
		ProductionDays:       45,
		DeliveryDaysSeparate: 12,
		DeliveryDaysCombined: 37,
		SafetyStockDays:      10,
		Combinable:           true,
	}
}

func solutionRule() domain.CategoryRule {
	return domain.CategoryRule{
		MinOrderVolume:       5000,
		Multiple:             24,
		ProductionDays:       45,
		DeliveryDaysSeparate: 37,
		DeliveryDaysCombined: 37,
		SafetyStockDays:      21,
		Combinable:           true,
	}
}

func TestRanker_Rank(t *testing.T) {
	ranker := NewRanker(DefaultWeights())
	sku := domain.SKU{Code: "30005", Category: domain.CategoryDailyLens, CurrentStock: 5, DailyConsumption: 1}

	ranked := ranker.Rank(sku, dailyLensRule(), forecast.Estimate{DailyConsumption: 1}, false)

	if ranked.DaysUntilOoS != 5 {
		t.Errorf("expected 5 days until OoS, got %d", ranked.DaysUntilOoS)
	}
	// 45 production + 12 separate delivery + 10 safety = 67 days of cover.
	if ranked.RequiredStock != 67 {
		t.Errorf("expected required stock 67, got %v", ranked.RequiredStock)
	}
	if ranked.RecommendedOrder != 62 {
		t.Errorf("expected recommended order 62, got %v", ranked.RecommendedOrder)
	}
	if ranked.PriorityScore != 995 {
		t.Errorf("expected priority 995, got %v", ranked.PriorityScore)
	}
	if ranked.Criticality != domain.CriticalityHigh {
		t.Errorf("expected HIGH criticality, got %s", ranked.Criticality)
	}
}

func TestRanker_ZeroConsumptionSentinel(t *testing.T) {
	ranker := NewRanker(DefaultWeights())
	sku := domain.SKU{Code: "30001", CurrentStock: 100, DailyConsumption: 0}

	ranked := ranker.Rank(sku, dailyLensRule(), forecast.Estimate{}, false)

	if ranked.DaysUntilOoS != NoThreatSentinelDays {
		t.Errorf("expected sentinel %d, got %d", NoThreatSentinelDays, ranked.DaysUntilOoS)
	}
	if ranked.Criticality != domain.CriticalityLow {
		t.Errorf("expected LOW criticality, got %s", ranked.Criticality)
	}
	if ranked.RecommendedOrder != 0 {
		t.Errorf("expected no recommendation, got %v", ranked.RecommendedOrder)
	}
}

func TestRanker_ForecastBonuses(t *testing.T) {
	ranker := NewRanker(DefaultWeights())
	sku := domain.SKU{Code: "30001", CurrentStock: 100, DailyConsumption: 1}

	base := ranker.Rank(sku, dailyLensRule(), forecast.Estimate{DailyConsumption: 1}, false)

	tests := []struct {
		trend domain.Trend
		delta float64
	}{
		{domain.TrendIncreasing, 0.9*100 + 50},
		{domain.TrendDecreasing, 0.9*100 - 20},
		{domain.TrendStable, 0.9 * 100},
	}

	for _, tt := range tests {
		est := forecast.Estimate{
			DailyConsumption: 1,
			Forecast:         &domain.ForecastResult{Confidence: 0.9, Trend: tt.trend},
		}
		ranked := ranker.Rank(sku, dailyLensRule(), est, false)
		if got := ranked.PriorityScore - base.PriorityScore; got != tt.delta {
			t.Errorf("trend %s: expected score delta %v, got %v", tt.trend, tt.delta, got)
		}
	}
}

// The delivery lane changes the required-stock target: the combined lane is
// slower for lenses, so combining raises the target.
func TestRanker_CombinedLaneRaisesTarget(t *testing.T) {
	ranker := NewRanker(DefaultWeights())
	sku := domain.SKU{Code: "30001", CurrentStock: 5, DailyConsumption: 1}

	separate := ranker.Rank(sku, dailyLensRule(), forecast.Estimate{DailyConsumption: 1}, false)
	combined := ranker.Rank(sku, dailyLensRule(), forecast.Estimate{DailyConsumption: 1}, true)

	if separate.RequiredStock != 67 || combined.RequiredStock != 92 {
		t.Errorf("expected targets 67/92, got %v/%v", separate.RequiredStock, combined.RequiredStock)
	}
}

func TestCriticalityFor(t *testing.T) {
	tests := []struct {
		days int
		want domain.Criticality
	}{
		{-3, domain.CriticalityCritical},
		{0, domain.CriticalityCritical},
		{1, domain.CriticalityHigh},
		{7, domain.CriticalityHigh},
		{8, domain.CriticalityMedium},
		{30, domain.CriticalityMedium},
		{31, domain.CriticalityLow},
		{999, domain.CriticalityLow},
	}

	for _, tt := range tests {
		if got := CriticalityFor(tt.days); got != tt.want {
			t.Errorf("CriticalityFor(%d): expected %s, got %s", tt.days, tt.want, got)
		}
	}
}
