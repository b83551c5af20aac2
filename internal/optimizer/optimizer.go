// internal/optimizer/optimizer.go
package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/rules"
)

// Request is one optimization run over a category's SKU snapshot. The run
// owns its inputs: callers hand over fresh copies and nothing is mutated.
type Request struct {
	SKUs    []domain.SKU
	History forecast.History

	// MinOrderVolume overrides the category rule's minimum when > 0.
	MinOrderVolume int

	// DefaultRuleForUnknown applies rules.DefaultRule to codes that match no
	// pattern instead of failing the run. The default is the one documented
	// on rules.DefaultRule; there is no other.
	DefaultRuleForUnknown bool

	// Now anchors order and delivery dates; zero means time.Now().
	Now time.Time
}

// Optimizer turns a category snapshot into an OrderPlan.
type Optimizer struct {
	catalog          *rules.Catalog
	ranker           *Ranker
	allocator        *Allocator
	threatWindowDays int
}

func New(catalog *rules.Catalog, weights Weights, threatWindowDays int) *Optimizer {
	if threatWindowDays <= 0 {
		threatWindowDays = DefaultThreatWindowDays
	}
	return &Optimizer{
		catalog:          catalog,
		ranker:           NewRanker(weights),
		allocator:        NewAllocator(threatWindowDays),
		threatWindowDays: threatWindowDays,
	}
}

// Plan validates the snapshot, ranks it, decides the delivery mode and runs
// the allocator. Pure computation: no I/O, safe to call concurrently as long
// as each call gets its own Request.
func (o *Optimizer) Plan(ctx context.Context, req Request, strategy forecast.ConsumptionStrategy) (*domain.OrderPlan, error) {
	if len(req.SKUs) == 0 {
		return nil, domain.ErrEmptySnapshot
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	if strategy == nil {
		strategy = forecast.StaticConsumptionStrategy{}
	}

	type classified struct {
		sku  domain.SKU
		rule domain.CategoryRule
		est  forecast.Estimate
	}
	items := make([]classified, 0, len(req.SKUs))

	for _, sku := range req.SKUs {
		if err := domain.ValidateSKU(sku); err != nil {
			return nil, err
		}

		category, rule, err := o.catalog.Classify(sku.Code)
		if err != nil {
			if !req.DefaultRuleForUnknown {
				return nil, err
			}
			category, rule = domain.CategoryUnknown, rules.DefaultRule
		}
		sku.Category = category

		est, err := strategy.Estimate(ctx, sku, req.History[sku.Code])
		if err != nil {
			return nil, fmt.Errorf("estimate %s: %w", sku.Code, err)
		}

		items = append(items, classified{sku: sku, rule: rule, est: est})
	}

	// The delivery mode depends only on categories and rules, so it is
	// decided before ranking and feeds the required-stock targets.
	probe := make([]RankedSKU, len(items))
	for i, it := range items {
		probe[i] = RankedSKU{SKU: it.sku, Rule: it.rule}
	}
	delivery := AnalyzeDelivery(probe, now)
	combined := delivery.Decision.CanCombine

	ranked := make([]RankedSKU, len(items))
	for i, it := range items {
		ranked[i] = o.ranker.Rank(it.sku, it.rule, it.est, combined)
	}

	minOrder := req.MinOrderVolume
	if minOrder <= 0 {
		minOrder = categoryMinOrder(ranked)
	}

	result := o.allocator.Allocate(ranked, minOrder)
	return o.assemble(ranked, minOrder, result, delivery, now), nil
}

// categoryMinOrder takes the minimum order volume of the most urgent SKU's
// rule, matching how the category was identified upstream.
func categoryMinOrder(ranked []RankedSKU) int {
	best := ranked[0]
	for _, r := range ranked[1:] {
		if r.PriorityScore > best.PriorityScore ||
			(r.PriorityScore == best.PriorityScore && r.SKU.Code < best.SKU.Code) {
			best = r
		}
	}
	return best.Rule.MinOrderVolume
}

func (o *Optimizer) assemble(ranked []RankedSKU, minOrder int, result allocationResult, delivery DeliveryAnalysis, now time.Time) *domain.OrderPlan {
	insights := buildInsights(ranked)

	if result.state == stateNoThreat {
		return &domain.OrderPlan{
			OrderNeeded: false,
			Reason:      fmt.Sprintf("no stockout threat within %d days", o.threatWindowDays),
			TotalVolume: 0,
			MinOrder:    minOrder,
			Utilization: 0,
			SKUOrders:   []domain.Allocation{},
			Insights:    insights,
		}
	}

	total := 0
	for _, line := range result.lines {
		total += line.Volume
	}

	utilization := 0.0
	if minOrder > 0 {
		utilization = float64(total) / float64(minOrder) * 100
	}

	decision := delivery.Decision
	return &domain.OrderPlan{
		OrderNeeded:        true,
		TotalVolume:        total,
		MinOrder:           minOrder,
		Utilization:        utilization,
		SKUOrders:          result.lines,
		OrderDate:          domain.FormatPlanDate(delivery.Chosen.OrderDate),
		DeliveryDate:       domain.FormatPlanDate(delivery.Chosen.DeliveryDate),
		DeliveryDecision:   &decision,
		Insights:           insights,
		PartiallyFilled:    result.state == statePartiallyFilled,
		RemainingUnordered: result.remaining,
	}
}
