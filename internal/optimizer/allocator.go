package optimizer

import (
	"math"
	"sort"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/rules"
)

// fillState is the allocator's terminal state.
type fillState int

const (
	stateNoThreat fillState = iota
	stateFilled
	statePartiallyFilled
)

// candidate is the allocator's private ledger entry for one ranked SKU.
// The ranked input is never touched; all projections live here.
type candidate struct {
	ranked          RankedSKU
	projectedStock  float64
	projectedDays   int
	projectedRecomm float64
	allocated       int
}

// allocationResult is the raw outcome before plan assembly.
type allocationResult struct {
	state     fillState
	lines     []domain.Allocation
	remaining int
}

// Allocator greedily distributes a category's minimum order volume across
// ranked SKUs, re-evaluating stockout projections after every increment.
type Allocator struct {
	threatWindowDays int
}

func NewAllocator(threatWindowDays int) *Allocator {
	if threatWindowDays <= 0 {
		threatWindowDays = DefaultThreatWindowDays
	}
	return &Allocator{threatWindowDays: threatWindowDays}
}

// Allocate runs the greedy fill. States: no SKU inside the threat window
// means NoThreat and no order; otherwise volume is spent highest priority
// first until the minimum order is met (Filled) or no candidate can absorb
// another increment (PartiallyFilled). Recommended demand is served first;
// leftover mandatory volume tops up the most urgent threat SKU. Every
// served round spends at least one unit, so the loop needs no round cap.
func (a *Allocator) Allocate(ranked []RankedSKU, minOrder int) allocationResult {
	work := make([]*candidate, len(ranked))
	for i, r := range ranked {
		work[i] = &candidate{
			ranked:          r,
			projectedStock:  r.SKU.CurrentStock,
			projectedDays:   r.DaysUntilOoS,
			projectedRecomm: r.RecommendedOrder,
		}
	}

	// Priority descending; ties break on code ascending so identical input
	// always yields an identical plan.
	sort.SliceStable(work, func(i, j int) bool {
		if work[i].ranked.PriorityScore != work[j].ranked.PriorityScore {
			return work[i].ranked.PriorityScore > work[j].ranked.PriorityScore
		}
		return work[i].ranked.SKU.Code < work[j].ranked.SKU.Code
	})

	threat := false
	for _, c := range work {
		if c.ranked.DaysUntilOoS <= a.threatWindowDays {
			threat = true
			break
		}
	}
	if !threat {
		return allocationResult{state: stateNoThreat}
	}

	remaining := minOrder
	// Running threshold: tracks the latest stockout date already resolved, so
	// the fill chases the next SKU to run dry instead of dumping everything
	// into the first one.
	threshold := 0

	var order []*candidate // consolidation order: first touch wins

	for remaining > 0 {
		cur := pickCandidate(work, threshold)
		base := 0.0
		if cur != nil {
			base = cur.projectedRecomm
		} else {
			// Demand is exhausted but the category minimum is a hard supplier
			// commitment: park the rest on the most urgent threat SKU, in
			// chunks sized by its original recommendation, extending its
			// coverage past the required-stock target.
			cur = pickTopUp(work, a.threatWindowDays)
			if cur == nil {
				break
			}
			base = cur.ranked.RecommendedOrder
		}

		want := base
		if want > float64(remaining) {
			want = float64(remaining)
		}
		need := rules.RoundUpToMultiple(int(math.Ceil(want)), cur.ranked.Rule.Multiple)
		if need > remaining {
			// Clamp to the category's remaining volume. The final increment
			// of a run may therefore not be a packaging multiple; accepted.
			need = remaining
		}
		if need <= 0 {
			break
		}

		if cur.allocated == 0 {
			order = append(order, cur)
		}
		cur.allocated += need
		remaining -= need

		cur.projectedStock += float64(need)
		if cur.ranked.Consumption > 0 {
			cur.projectedDays = int(cur.projectedStock / cur.ranked.Consumption)
		} else {
			cur.projectedDays = NoThreatSentinelDays
		}
		cur.projectedRecomm = cur.ranked.RequiredStock - cur.projectedStock
		if cur.projectedRecomm < 0 {
			cur.projectedRecomm = 0
		}
		threshold = cur.projectedDays
	}

	state := stateFilled
	if remaining > 0 {
		state = statePartiallyFilled
	}

	lines := make([]domain.Allocation, 0, len(order))
	for _, c := range order {
		coverage := 0.0
		if c.ranked.Consumption > 0 {
			coverage = float64(c.allocated) / c.ranked.Consumption
		}
		lines = append(lines, domain.Allocation{
			ProductCode:  c.ranked.SKU.Code,
			VariantLabel: c.ranked.SKU.VariantLabel,
			Volume:       c.allocated,
			DaysUntilOoS: c.ranked.DaysUntilOoS,
			NewOoSDate:   c.projectedDays,
			Criticality:  c.ranked.Criticality,
			CoverageDays: coverage,
		})
	}

	return allocationResult{state: state, lines: lines, remaining: remaining}
}

// pickCandidate prefers the highest-priority SKU already inside the running
// stockout threshold; if none qualifies it falls back to the
// highest-priority SKU with any remaining demand.
func pickCandidate(work []*candidate, threshold int) *candidate {
	for _, c := range work {
		if c.projectedDays <= threshold && c.projectedRecomm > 0 {
			return c
		}
	}
	for _, c := range work {
		if c.projectedRecomm > 0 {
			return c
		}
	}
	return nil
}

// pickTopUp selects where leftover minimum-order volume goes once every
// recommendation is satisfied: the highest-priority SKU that was a threat at
// ranking time and actually consumes stock.
func pickTopUp(work []*candidate, threatWindowDays int) *candidate {
	for _, c := range work {
		if c.ranked.DaysUntilOoS <= threatWindowDays && c.ranked.Consumption > 0 {
			return c
		}
	}
	return nil
}
