// internal/forecast/provider.go
package forecast

import (
	"context"

	"github.com/optilens/replenish/internal/domain"
)

// Provider supplies demand forecasts per SKU. Implementations must be safe
// for concurrent use; the planner may query several categories at once.
// A Provider that cannot answer returns domain.ErrForecastUnavailable
// (possibly wrapped) and the caller substitutes the fallback estimate.
type Provider interface {
	Forecast(ctx context.Context, productCode string, history []float64) (domain.ForecastResult, error)
}

// History maps SKU codes to their daily consumption series, most recent last.
type History map[string][]float64
