package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/rules"
)

func planDate() time.Time {
	return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
}

func fixtureSKUs() []domain.SKU {
	return []domain.SKU{
		{Code: "30001", CurrentStock: 385, DailyConsumption: 1},
		{Code: "30002", CurrentStock: 154, DailyConsumption: 1},
		{Code: "30003", CurrentStock: 103, DailyConsumption: 1},
		{Code: "30004", CurrentStock: 80, DailyConsumption: 1},
		{Code: "30005", CurrentStock: 5, DailyConsumption: 1},
	}
}

func newOptimizer() *Optimizer {
	return New(rules.NewCatalog(), DefaultWeights(), DefaultThreatWindowDays)
}

// The canonical daily-lens scenario: one SKU five days from stockout forces
// an order, and the mandatory 3000-unit category minimum is spent in full.
func TestPlan_DailyLensScenario(t *testing.T) {
	plan, err := newOptimizer().Plan(context.Background(), Request{
		SKUs: fixtureSKUs(),
		Now:  planDate(),
	}, forecast.StaticConsumptionStrategy{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if !plan.OrderNeeded {
		t.Fatal("expected an order")
	}
	if plan.MinOrder != 3000 {
		t.Errorf("expected category minimum 3000, got %d", plan.MinOrder)
	}
	if plan.TotalVolume != 3000 {
		t.Errorf("expected total volume 3000, got %d", plan.TotalVolume)
	}
	if plan.Utilization != 100 {
		t.Errorf("expected 100%% utilization, got %v", plan.Utilization)
	}
	if plan.PartiallyFilled {
		t.Error("expected a fully filled plan")
	}

	if len(plan.SKUOrders) == 0 {
		t.Fatal("expected allocations")
	}
	first := plan.SKUOrders[0]
	if first.ProductCode != "30005" {
		t.Errorf("expected 30005 allocated first, got %s", first.ProductCode)
	}
	if first.DaysUntilOoS != 5 {
		t.Errorf("expected 5 days until OoS, got %d", first.DaysUntilOoS)
	}

	sum := 0
	for _, line := range plan.SKUOrders {
		sum += line.Volume
		if line.Volume%30 != 0 {
			t.Errorf("line %s not a multiple of 30: %d", line.ProductCode, line.Volume)
		}
	}
	if sum != plan.TotalVolume {
		t.Errorf("sum invariant broken: %d != %d", sum, plan.TotalVolume)
	}

	// Lens-only category ships separately: 45+12 days from the plan date.
	if plan.OrderDate != "2025-04-01" {
		t.Errorf("expected order date 2025-04-01, got %s", plan.OrderDate)
	}
	if plan.DeliveryDate != "2025-05-28" {
		t.Errorf("expected delivery date 2025-05-28, got %s", plan.DeliveryDate)
	}
	if plan.DeliveryDecision == nil || plan.DeliveryDecision.CanCombine {
		t.Errorf("expected separate delivery, got %+v", plan.DeliveryDecision)
	}
}

func TestPlan_NoThreat(t *testing.T) {
	plan, err := newOptimizer().Plan(context.Background(), Request{
		SKUs: []domain.SKU{
			{Code: "30001", CurrentStock: 385, DailyConsumption: 1},
			{Code: "30002", CurrentStock: 154, DailyConsumption: 1},
		},
		Now: planDate(),
	}, forecast.StaticConsumptionStrategy{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.OrderNeeded {
		t.Fatal("expected no order")
	}
	if plan.Reason == "" {
		t.Error("expected a reason on the no-threat plan")
	}
	if plan.TotalVolume != 0 || len(plan.SKUOrders) != 0 {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func TestPlan_Deterministic(t *testing.T) {
	run := func() []byte {
		plan, err := newOptimizer().Plan(context.Background(), Request{
			SKUs: fixtureSKUs(),
			Now:  planDate(),
		}, forecast.StaticConsumptionStrategy{})
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		payload, err := json.Marshal(plan)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		return payload
	}

	first := run()
	second := run()
	if !bytes.Equal(first, second) {
		t.Errorf("plans differ:\n%s\n%s", first, second)
	}
}

func TestPlan_ValidationError(t *testing.T) {
	_, err := newOptimizer().Plan(context.Background(), Request{
		SKUs: []domain.SKU{{Code: "30001", CurrentStock: -1, DailyConsumption: 1}},
		Now:  planDate(),
	}, forecast.StaticConsumptionStrategy{})

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "stock" {
		t.Errorf("expected stock field, got %s", verr.Field)
	}
}

func TestPlan_UnknownCode(t *testing.T) {
	req := Request{
		SKUs: []domain.SKU{{Code: "99999", CurrentStock: 5, DailyConsumption: 1}},
		Now:  planDate(),
	}

	_, err := newOptimizer().Plan(context.Background(), req, forecast.StaticConsumptionStrategy{})
	if !errors.Is(err, domain.ErrRuleNotFound) {
		t.Fatalf("expected ErrRuleNotFound, got %v", err)
	}

	req.DefaultRuleForUnknown = true
	plan, err := newOptimizer().Plan(context.Background(), req, forecast.StaticConsumptionStrategy{})
	if err != nil {
		t.Fatalf("Plan with default rule failed: %v", err)
	}
	if !plan.OrderNeeded {
		t.Fatal("expected an order under the default rule")
	}
	if plan.MinOrder != rules.DefaultRule.MinOrderVolume {
		t.Errorf("expected default minimum %d, got %d", rules.DefaultRule.MinOrderVolume, plan.MinOrder)
	}
}

func TestPlan_MinOrderOverride(t *testing.T) {
	plan, err := newOptimizer().Plan(context.Background(), Request{
		SKUs:           fixtureSKUs(),
		MinOrderVolume: 90,
		Now:            planDate(),
	}, forecast.StaticConsumptionStrategy{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.MinOrder != 90 {
		t.Errorf("expected overridden minimum 90, got %d", plan.MinOrder)
	}
	if plan.TotalVolume != 90 {
		t.Errorf("expected total 90, got %d", plan.TotalVolume)
	}
	if plan.Utilization != 100 {
		t.Errorf("expected 100%% utilization, got %v", plan.Utilization)
	}
}

func TestPlan_InsightsFromForecasts(t *testing.T) {
	now := func() time.Time { return planDate() }
	strategy := forecast.NewForecastedStrategy(forecast.NewFallbackProvider(now), forecast.NewFallbackProvider(now))

	history := forecast.History{}
	for _, sku := range fixtureSKUs() {
		history[sku.Code] = []float64{1, 1, 1, 1, 1, 1, 1}
	}

	plan, err := newOptimizer().Plan(context.Background(), Request{
		SKUs:    fixtureSKUs(),
		History: history,
		Now:     planDate(),
	}, strategy)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if plan.Insights == nil {
		t.Fatal("expected insights when forecasts are attached")
	}
	if got := len(plan.Insights.Trends[domain.TrendStable]); got != 5 {
		t.Errorf("expected 5 stable SKUs, got %d", got)
	}
}

func TestPlan_StaticRunsCarryNoInsights(t *testing.T) {
	plan, err := newOptimizer().Plan(context.Background(), Request{
		SKUs: fixtureSKUs(),
		Now:  planDate(),
	}, forecast.StaticConsumptionStrategy{})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Insights != nil {
		t.Errorf("static run must not emit insights, got %+v", plan.Insights)
	}
}
