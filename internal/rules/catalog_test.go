package rules

import (
	"errors"
	"testing"

	"github.com/optilens/replenish/internal/domain"
)

func TestCatalog_Classify(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		code     string
		category domain.Category
	}{
		{"360360", domain.CategorySolution360},
		{"500500", domain.CategorySolution500},
		{"120120", domain.CategorySolution120},
		{"30001", domain.CategoryDailyLens},
		{"30999", domain.CategoryDailyLens},
		{"300001", domain.CategoryDailyLens},
		{"309999", domain.CategoryDailyLens},
		{"60001", domain.CategoryMonthlyLens6},
		{"69999", domain.CategoryMonthlyLens6},
		{"31001", domain.CategoryMonthlyLens3},
		{"39999", domain.CategoryMonthlyLens3},
	}

	for _, tt := range tests {
		category, _, err := catalog.Classify(tt.code)
		if err != nil {
			t.Fatalf("Classify(%s) failed: %v", tt.code, err)
		}
		if category != tt.category {
			t.Errorf("Classify(%s): expected %s, got %s", tt.code, tt.category, category)
		}
	}
}

// Codes like 30001 match both the daily-lens pattern and the monthly 3-pack
// prefix; the table order must make the daily-lens rule win.
func TestCatalog_MatchOrder(t *testing.T) {
	catalog := NewCatalog()

	category, rule, err := catalog.Classify("30001")
	if err != nil {
		t.Fatalf("Classify(30001) failed: %v", err)
	}
	if category != domain.CategoryDailyLens {
		t.Fatalf("expected daily_lens, got %s", category)
	}
	if rule.MinOrderVolume != 3000 || rule.Multiple != 30 {
		t.Errorf("expected daily lens rule {3000, 30}, got {%d, %d}", rule.MinOrderVolume, rule.Multiple)
	}
}

func TestCatalog_UnknownCode(t *testing.T) {
	catalog := NewCatalog()

	_, _, err := catalog.Classify("99999")
	if err == nil {
		t.Fatal("expected an error for an unknown code")
	}
	if !errors.Is(err, domain.ErrRuleNotFound) {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}

	// Too short and too long for every pattern.
	for _, code := range []string{"3000", "3000000", "", "abcde"} {
		if _, _, err := catalog.Classify(code); !errors.Is(err, domain.ErrRuleNotFound) {
			t.Errorf("Classify(%q): expected ErrRuleNotFound, got %v", code, err)
		}
	}
}

func TestCatalog_RuleValues(t *testing.T) {
	catalog := NewCatalog()

	daily, ok := catalog.Rule(domain.CategoryDailyLens)
	if !ok {
		t.Fatal("daily_lens rule missing")
	}
	if daily.ProductionDays != 45 || daily.DeliveryDaysSeparate != 12 || daily.DeliveryDaysCombined != 37 {
		t.Errorf("daily lens lead times wrong: %+v", daily)
	}
	if daily.SafetyStockDays != 10 || !daily.Combinable {
		t.Errorf("daily lens safety/combinable wrong: %+v", daily)
	}

	solution, ok := catalog.Rule(domain.CategorySolution120)
	if !ok {
		t.Fatal("solution_120 rule missing")
	}
	if solution.Multiple != 48 || solution.MinOrderVolume != 5000 {
		t.Errorf("solution_120 constraints wrong: %+v", solution)
	}
	if solution.DeliveryDaysSeparate != 37 || solution.DeliveryDaysCombined != 37 {
		t.Errorf("solution_120 delivery days wrong: %+v", solution)
	}
}

func TestDefaultRule(t *testing.T) {
	if DefaultRule.MinOrderVolume != 1 || DefaultRule.Multiple != 1 {
		t.Errorf("default rule order constraints changed: %+v", DefaultRule)
	}
	if DefaultRule.Combinable {
		t.Error("default rule must not be combinable")
	}
}

func TestCatalog_Categories(t *testing.T) {
	catalog := NewCatalog()

	got := catalog.Categories()
	want := []domain.Category{
		domain.CategorySolution360,
		domain.CategorySolution500,
		domain.CategorySolution120,
		domain.CategoryDailyLens,
		domain.CategoryMonthlyLens6,
		domain.CategoryMonthlyLens3,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
