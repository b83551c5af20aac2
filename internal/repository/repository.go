// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/optilens/replenish/internal/domain"
)

// The ERP (stock, sales, purchase orders) is an external collaborator.
// These interfaces are the whole contract; implementations live with the
// integration, not in this module.

// StockProvider fetches the current stock snapshot for a set of codes.
type StockProvider interface {
	CurrentStock(ctx context.Context, codes []string) (map[string]float64, error)
}

// SalesHistoryRepository returns daily consumption series per SKU, oldest
// first, covering up to days back from now. Feeds the fallback forecaster.
type SalesHistoryRepository interface {
	ConsumptionHistory(ctx context.Context, codes []string, days int) (map[string][]float64, error)
	RecordConsumption(ctx context.Context, code string, day time.Time, quantity float64) error
}

// PurchaseOrderCreator submits a finished plan to the ERP.
type PurchaseOrderCreator interface {
	CreatePurchaseOrder(ctx context.Context, plan *domain.OrderPlan) (orderID string, err error)
}
