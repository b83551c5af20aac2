package rules

import "github.com/optilens/replenish/internal/domain"

// Lead-time calculators. Pure functions of their inputs; no side effects.
// None of them assume the combined lane is faster than the separate one
// (for lenses it is not).

// TotalLeadTime is production plus the delivery lane chosen by combined.
func TotalLeadTime(rule domain.CategoryRule, combined bool) int {
	if combined {
		return rule.ProductionDays + rule.DeliveryDaysCombined
	}
	return rule.ProductionDays + rule.DeliveryDaysSeparate
}

// CriticalRunwayDays is the stock runway below which an order is already
// late: total lead time plus the safety-stock buffer.
func CriticalRunwayDays(rule domain.CategoryRule, combined bool) int {
	return TotalLeadTime(rule, combined) + rule.SafetyStockDays
}

// RequiredStock is the stock level that covers consumption through the
// critical runway.
func RequiredStock(sku domain.SKU, rule domain.CategoryRule, combined bool) float64 {
	return sku.DailyConsumption * float64(CriticalRunwayDays(rule, combined))
}
