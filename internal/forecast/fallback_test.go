package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/optilens/replenish/internal/domain"
)

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestFallbackProvider_ShortSeries(t *testing.T) {
	provider := NewFallbackProvider(fixedClock(time.April))

	result, err := provider.Forecast(context.Background(), "30001", []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if result.PredictedDailyConsumption != 1.0 {
		t.Errorf("expected default consumption 1.0, got %v", result.PredictedDailyConsumption)
	}
	if result.Confidence != 0.5 {
		t.Errorf("expected lowered confidence 0.5, got %v", result.Confidence)
	}
	if result.Trend != domain.TrendStable {
		t.Errorf("expected stable trend, got %s", result.Trend)
	}
	if result.SeasonalityFactor != 1.0 {
		t.Errorf("expected neutral seasonality, got %v", result.SeasonalityFactor)
	}
}

func TestFallbackProvider_Trend(t *testing.T) {
	provider := NewFallbackProvider(fixedClock(time.April))

	tests := []struct {
		name    string
		history []float64
		trend   domain.Trend
	}{
		{
			name:    "increasing",
			history: []float64{1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2},
			trend:   domain.TrendIncreasing,
		},
		{
			name:    "decreasing",
			history: []float64{2, 2, 2, 2, 2, 2, 2, 1, 1, 1, 1, 1, 1, 1},
			trend:   domain.TrendDecreasing,
		},
		{
			name:    "stable",
			history: []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
			trend:   domain.TrendStable,
		},
		{
			name:    "noise within bands",
			history: []float64{2, 2, 2, 2, 2, 2, 2, 2.1, 2.1, 2.1, 2.1, 2.1, 2.1, 2.1},
			trend:   domain.TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := provider.Forecast(context.Background(), "30001", tt.history)
			if err != nil {
				t.Fatalf("Forecast failed: %v", err)
			}
			if result.Trend != tt.trend {
				t.Errorf("expected trend %s, got %s", tt.trend, result.Trend)
			}
			if result.Confidence != 0.8 {
				t.Errorf("expected confidence 0.8, got %v", result.Confidence)
			}
		})
	}
}

func TestFallbackProvider_Seasonality(t *testing.T) {
	history := []float64{2, 2, 2, 2, 2, 2, 2}

	tests := []struct {
		month       time.Month
		factor      float64
		consumption float64
	}{
		{time.January, 0.9, 1.8},
		{time.July, 1.1, 2.2},
		{time.April, 1.0, 2.0},
	}

	for _, tt := range tests {
		provider := NewFallbackProvider(fixedClock(tt.month))
		result, err := provider.Forecast(context.Background(), "30001", history)
		if err != nil {
			t.Fatalf("Forecast failed: %v", err)
		}
		if result.SeasonalityFactor != tt.factor {
			t.Errorf("%s: expected seasonality %v, got %v", tt.month, tt.factor, result.SeasonalityFactor)
		}
		got := result.PredictedDailyConsumption
		if got < tt.consumption-1e-9 || got > tt.consumption+1e-9 {
			t.Errorf("%s: expected consumption %v, got %v", tt.month, tt.consumption, got)
		}
	}
}

func TestFallbackProvider_Deterministic(t *testing.T) {
	provider := NewFallbackProvider(fixedClock(time.April))
	history := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}

	first, _ := provider.Forecast(context.Background(), "30001", history)
	second, _ := provider.Forecast(context.Background(), "30001", history)

	if first != second {
		t.Errorf("expected identical results, got %+v vs %+v", first, second)
	}
}
