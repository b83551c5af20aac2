package optimizer

import (
	"time"

	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/rules"
)

// Schedule is one delivery alternative for the analyzed SKU set.
type Schedule struct {
	Combined     bool      `json:"combined"`
	LeadTimeDays int       `json:"lead_time_days"`
	OrderDate    time.Time `json:"order_date"`
	DeliveryDate time.Time `json:"delivery_date"`
}

// DeliveryAnalysis is the combined-vs-separate trade-off for one run.
// SavingsDays counts freight-cost days saved by letting lenses ride the
// solutions shipment; it is a reporting estimate, not a cost model.
type DeliveryAnalysis struct {
	Decision domain.DeliveryDecision
	Combined Schedule
	Separate Schedule
	Chosen   Schedule
}

// AnalyzeDelivery partitions the SKUs into lens and solution buckets and
// decides whether their shipments can be merged. Merging needs both buckets
// non-empty and every involved rule marked combinable.
func AnalyzeDelivery(items []RankedSKU, now time.Time) DeliveryAnalysis {
	var lenses, solutions []string
	allCombinable := true

	for _, it := range items {
		switch {
		case it.SKU.Category.IsLens():
			lenses = append(lenses, it.SKU.Code)
		case it.SKU.Category.IsSolution():
			solutions = append(solutions, it.SKU.Code)
		}
		if !it.Rule.Combinable {
			allCombinable = false
		}
	}

	canCombine := len(lenses) > 0 && len(solutions) > 0 && allCombinable

	savings := 0
	if canCombine {
		// Each lens SKU skips its separate freight leg.
		for _, it := range items {
			if it.SKU.Category.IsLens() && it.Rule.Combinable {
				savings += it.Rule.DeliveryDaysSeparate
			}
		}
	}

	combined := buildSchedule(items, now, true)
	separate := buildSchedule(items, now, false)

	chosen := separate
	decision := domain.DeliveryDecision{
		CanCombine:       canCombine,
		SavingsDays:      savings,
		CombinedProducts: []string{},
		SeparateProducts: append(append([]string{}, lenses...), solutions...),
	}
	if canCombine {
		chosen = combined
		decision.CombinedProducts = append(append([]string{}, lenses...), solutions...)
		decision.SeparateProducts = []string{}
	}

	return DeliveryAnalysis{
		Decision: decision,
		Combined: combined,
		Separate: separate,
		Chosen:   chosen,
	}
}

// buildSchedule dates a shipment by the slowest involved rule for the mode.
func buildSchedule(items []RankedSKU, now time.Time, combined bool) Schedule {
	lead := 0
	for _, it := range items {
		if lt := rules.TotalLeadTime(it.Rule, combined); lt > lead {
			lead = lt
		}
	}
	return Schedule{
		Combined:     combined,
		LeadTimeDays: lead,
		OrderDate:    now,
		DeliveryDate: now.AddDate(0, 0, lead),
	}
}
