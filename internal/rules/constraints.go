package rules

import (
	"fmt"

	"github.com/optilens/replenish/internal/domain"
)

// ApplyOrderConstraints lifts a recommended quantity to the rule's minimum
// order volume and rounds it up to the packaging multiple. Used at the
// ERP-order boundary for single-SKU orders; the category allocator applies
// multiples per increment instead.
func ApplyOrderConstraints(rule domain.CategoryRule, recommended float64) int {
	if recommended <= 0 {
		return 0
	}
	qty := int(recommended)
	if float64(qty) < recommended {
		qty++
	}
	if qty < rule.MinOrderVolume {
		qty = rule.MinOrderVolume
	}
	return RoundUpToMultiple(qty, rule.Multiple)
}

// RoundUpToMultiple rounds qty up to the next multiple. A multiple of 0 or 1
// leaves qty unchanged.
func RoundUpToMultiple(qty, multiple int) int {
	if multiple <= 1 || qty <= 0 {
		return qty
	}
	return (qty + multiple - 1) / multiple * multiple
}

// ValidateOrder checks a finished order quantity against the rule and
// returns every violation found.
func ValidateOrder(rule domain.CategoryRule, qty int) []error {
	var errs []error
	if qty < rule.MinOrderVolume {
		errs = append(errs, fmt.Errorf("order below minimum: %d < %d", qty, rule.MinOrderVolume))
	}
	if rule.Multiple > 1 && qty%rule.Multiple != 0 {
		errs = append(errs, fmt.Errorf("order not a multiple of %d: %d", rule.Multiple, qty))
	}
	return errs
}
