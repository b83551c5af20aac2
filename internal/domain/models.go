// internal/domain/models.go
package domain

import "time"

// Category identifies a purchasing category of the catalog.
type Category string

const (
	CategoryDailyLens    Category = "daily_lens"
	CategoryMonthlyLens3 Category = "monthly_lens_3"
	CategoryMonthlyLens6 Category = "monthly_lens_6"
	CategorySolution360  Category = "solution_360"
	CategorySolution500  Category = "solution_500"
	CategorySolution120  Category = "solution_120"
	CategoryUnknown      Category = "unknown"
)

// IsSolution reports whether the category is a cleaning solution.
func (c Category) IsSolution() bool {
	switch c {
	case CategorySolution360, CategorySolution500, CategorySolution120:
		return true
	}
	return false
}

// IsLens reports whether the category is a contact lens line.
func (c Category) IsLens() bool {
	switch c {
	case CategoryDailyLens, CategoryMonthlyLens3, CategoryMonthlyLens6:
		return true
	}
	return false
}

// SKU is a snapshot of one stock-keeping unit, created fresh per
// optimization run. VariantLabel is display-only (diopter etc.).
type SKU struct {
	Code             string   `json:"code"`
	Category         Category `json:"category,omitempty"`
	CurrentStock     float64  `json:"stock"`
	DailyConsumption float64  `json:"consumption"`
	VariantLabel     string   `json:"variant,omitempty"`
}

// CategoryRule holds the purchasing constraints for one category.
// Loaded once, never mutated. DeliveryDaysCombined is NOT guaranteed to be
// smaller than DeliveryDaysSeparate: lenses riding a solutions shipment
// travel slower than separate air freight.
type CategoryRule struct {
	MinOrderVolume       int  `json:"min_order"`
	Multiple             int  `json:"multiple"`
	ProductionDays       int  `json:"production_days"`
	DeliveryDaysSeparate int  `json:"delivery_days"`
	DeliveryDaysCombined int  `json:"combined_delivery_days"`
	SafetyStockDays      int  `json:"safety_stock_days"`
	Combinable           bool `json:"can_combine_delivery"`
}

// Trend labels the direction of forecast consumption.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// ForecastResult is the demand forecast for one SKU, supplied by the
// forecasting collaborator (or the deterministic fallback).
type ForecastResult struct {
	PredictedDailyConsumption float64 `json:"predicted_consumption"`
	Confidence                float64 `json:"confidence"`
	Trend                     Trend   `json:"trend"`
	SeasonalityFactor         float64 `json:"seasonality_factor"`
}

// Criticality is the coarse urgency tier derived from days until stockout.
type Criticality string

const (
	CriticalityCritical Criticality = "CRITICAL"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityMedium   Criticality = "MEDIUM"
	CriticalityLow      Criticality = "LOW"
)

// Allocation is one consolidated order line of the plan.
type Allocation struct {
	ProductCode  string      `json:"product_code"`
	VariantLabel string      `json:"variant,omitempty"`
	Volume       int         `json:"volume"`
	DaysUntilOoS int         `json:"days_until_oos"`
	NewOoSDate   int         `json:"new_oos_date"`
	Criticality  Criticality `json:"criticality"`
	CoverageDays float64     `json:"coverage_days"`
}

// DeliveryDecision reports whether lens and solution shipments were merged
// and what that was estimated to save. SavingsDays is a freight-cost
// heuristic for reporting, not a calendar guarantee.
type DeliveryDecision struct {
	CanCombine       bool     `json:"can_combine"`
	SavingsDays      int      `json:"savings_days"`
	CombinedProducts []string `json:"combined_products"`
	SeparateProducts []string `json:"separate_products"`
}

// Insights summarizes the collected forecasts; derived data only.
type Insights struct {
	Trends            map[Trend][]string  `json:"trends"`
	SeasonalityImpact map[string][]string `json:"seasonality_impact"`
	ConfidenceLevels  map[string][]string `json:"confidence_levels"`
	Recommendations   []string            `json:"recommendations"`
}

// OrderPlan is the final allocation for one category. The JSON shape is a
// wire contract with the ERP order-creation and dashboard services; do not
// rename fields.
type OrderPlan struct {
	OrderNeeded        bool              `json:"order_needed"`
	Reason             string            `json:"reason,omitempty"`
	TotalVolume        int               `json:"total_volume"`
	MinOrder           int               `json:"min_order"`
	Utilization        float64           `json:"utilization"`
	SKUOrders          []Allocation      `json:"sku_orders"`
	OrderDate          string            `json:"order_date,omitempty"`
	DeliveryDate       string            `json:"delivery_date,omitempty"`
	DeliveryDecision   *DeliveryDecision `json:"delivery_optimization,omitempty"`
	Insights           *Insights         `json:"insights,omitempty"`
	PartiallyFilled    bool              `json:"partially_filled,omitempty"`
	RemainingUnordered int               `json:"remaining_unordered,omitempty"`
}

// PlanDate is the date layout used on the wire for order/delivery dates.
const PlanDate = "2006-01-02"

// FormatPlanDate renders a plan date in the wire layout.
func FormatPlanDate(t time.Time) string {
	return t.Format(PlanDate)
}
