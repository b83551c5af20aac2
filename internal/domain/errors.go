package domain

import (
	"errors"
	"fmt"
)

// ErrRuleNotFound reports that a SKU code matched no category pattern.
// Callers that want a default must opt in to rules.DefaultRule explicitly.
var ErrRuleNotFound = errors.New("no category rule matches product code")

// ErrForecastUnavailable reports that the forecasting collaborator could not
// produce a result. Non-fatal: callers substitute the fallback estimate.
var ErrForecastUnavailable = errors.New("forecast unavailable")

// ErrEmptySnapshot rejects a request carrying no SKUs at all.
var ErrEmptySnapshot = errors.New("empty sku snapshot")

// ValidationError rejects an invalid SKU snapshot at the boundary. Negative
// inputs are never clamped inside the core.
type ValidationError struct {
	Code  string
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sku %s: %s must not be negative, got %v", e.Code, e.Field, e.Value)
}

// ValidateSKU checks a snapshot for negative stock or consumption.
func ValidateSKU(sku SKU) error {
	if sku.CurrentStock < 0 {
		return &ValidationError{Code: sku.Code, Field: "stock", Value: sku.CurrentStock}
	}
	if sku.DailyConsumption < 0 {
		return &ValidationError{Code: sku.Code, Field: "consumption", Value: sku.DailyConsumption}
	}
	return nil
}
