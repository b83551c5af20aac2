// internal/rules/catalog.go
package rules

import (
	"fmt"
	"regexp"

	"github.com/optilens/replenish/internal/domain"
)

// ruleEntry binds one code pattern to a category and its purchasing rule.
type ruleEntry struct {
	pattern  *regexp.Regexp
	category domain.Category
	rule     domain.CategoryRule
}

// Catalog classifies SKU codes into purchasing categories. Matching walks an
// ordered table and the FIRST matching pattern wins. The order is part of the
// contract: exact solution codes come before the numeric lens prefixes, and
// the daily-lens "30xxx" prefix comes before the monthly "3xxxx" prefix, so a
// code like 30001 is always a daily lens.
type Catalog struct {
	entries []ruleEntry
}

// DefaultRule is the single documented rule for codes that match no pattern.
// Callers must opt in to it explicitly; Classify never applies it silently.
var DefaultRule = domain.CategoryRule{
	MinOrderVolume:       1,
	Multiple:             1,
	ProductionDays:       7,
	DeliveryDaysSeparate: 7,
	DeliveryDaysCombined: 7,
	SafetyStockDays:      7,
	Combinable:           false,
}

// NewCatalog returns the catalog with the fixed manufacturer rule table.
func NewCatalog() *Catalog {
	lensDelivery := domain.CategoryRule{
		ProductionDays:       45,
		DeliveryDaysSeparate: 12,
		// Lenses riding the solutions shipment take the solutions lane.
		DeliveryDaysCombined: 37,
		Combinable:           true,
	}
	solutionDelivery := domain.CategoryRule{
		ProductionDays:       45,
		DeliveryDaysSeparate: 37,
		DeliveryDaysCombined: 37,
		SafetyStockDays:      21,
		Combinable:           true,
	}

	daily := lensDelivery
	daily.MinOrderVolume = 3000
	daily.Multiple = 30
	daily.SafetyStockDays = 10

	monthly := lensDelivery
	monthly.MinOrderVolume = 5000
	monthly.Multiple = 50
	monthly.SafetyStockDays = 14

	sol360 := solutionDelivery
	sol360.MinOrderVolume = 5000
	sol360.Multiple = 24

	sol500 := solutionDelivery
	sol500.MinOrderVolume = 5000
	sol500.Multiple = 24

	sol120 := solutionDelivery
	sol120.MinOrderVolume = 5000
	sol120.Multiple = 48

	return &Catalog{entries: []ruleEntry{
		{regexp.MustCompile(`^360360$`), domain.CategorySolution360, sol360},
		{regexp.MustCompile(`^500500$`), domain.CategorySolution500, sol500},
		{regexp.MustCompile(`^120120$`), domain.CategorySolution120, sol120},
		// Daily codes ship in both the short 30xxx and long 30xxxx form.
		{regexp.MustCompile(`^30\d{3,4}$`), domain.CategoryDailyLens, daily},
		{regexp.MustCompile(`^6\d{4}$`), domain.CategoryMonthlyLens6, monthly},
		{regexp.MustCompile(`^3\d{4}$`), domain.CategoryMonthlyLens3, monthly},
	}}
}

// Classify returns the category and purchasing rule for a SKU code.
func (c *Catalog) Classify(code string) (domain.Category, domain.CategoryRule, error) {
	for _, e := range c.entries {
		if e.pattern.MatchString(code) {
			return e.category, e.rule, nil
		}
	}
	return domain.CategoryUnknown, domain.CategoryRule{}, fmt.Errorf("classify %q: %w", code, domain.ErrRuleNotFound)
}

// Rule returns the purchasing rule for a category, without pattern matching.
func (c *Catalog) Rule(category domain.Category) (domain.CategoryRule, bool) {
	for _, e := range c.entries {
		if e.category == category {
			return e.rule, true
		}
	}
	return domain.CategoryRule{}, false
}

// Categories lists the known categories in match order.
func (c *Catalog) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.category)
	}
	return out
}
