package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SalesHistoryRepository stores daily consumption per SKU. The table keeps
// one row per (code, day); upserts overwrite so late corrections win.
type SalesHistoryRepository struct {
	db *DB
}

func NewSalesHistoryRepository(db *DB) *SalesHistoryRepository {
	return &SalesHistoryRepository{db: db}
}

type consumptionRow struct {
	ProductCode string    `db:"product_code"`
	Day         time.Time `db:"day"`
	Quantity    float64   `db:"quantity"`
}

// ConsumptionHistory returns per-SKU daily series, oldest first. Days with
// no row are emitted as zero so the series stays contiguous for the
// trailing-average forecaster.
func (r *SalesHistoryRepository) ConsumptionHistory(ctx context.Context, codes []string, days int) (map[string][]float64, error) {
	if len(codes) == 0 || days <= 0 {
		return map[string][]float64{}, nil
	}

	since := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)

	query, args, err := buildInQuery(
		`SELECT product_code, day, quantity
		 FROM daily_consumption
		 WHERE day >= $1 AND product_code IN (%s)
		 ORDER BY product_code, day`,
		2, codes, since)
	if err != nil {
		return nil, err
	}

	var rows []consumptionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select consumption history: %w", err)
	}

	byCode := make(map[string]map[string]float64, len(codes))
	for _, row := range rows {
		key := row.Day.Format("2006-01-02")
		if byCode[row.ProductCode] == nil {
			byCode[row.ProductCode] = map[string]float64{}
		}
		byCode[row.ProductCode][key] = row.Quantity
	}

	out := make(map[string][]float64, len(codes))
	for _, code := range codes {
		series := make([]float64, 0, days)
		for d := 0; d < days; d++ {
			day := since.AddDate(0, 0, d).Format("2006-01-02")
			series = append(series, byCode[code][day])
		}
		out[code] = series
	}
	return out, nil
}

// RecordConsumption upserts one day's consumption for a SKU.
func (r *SalesHistoryRepository) RecordConsumption(ctx context.Context, code string, day time.Time, quantity float64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO daily_consumption (product_code, day, quantity)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (product_code, day) DO UPDATE SET quantity = EXCLUDED.quantity`,
			code, day.Truncate(24*time.Hour), quantity)
		if err != nil {
			return fmt.Errorf("upsert consumption: %w", err)
		}
		return nil
	})
}

// buildInQuery expands an IN (%s) placeholder with positional args starting
// at firstIndex, appending codes after the fixed args.
func buildInQuery(format string, firstIndex int, codes []string, fixed ...interface{}) (string, []interface{}, error) {
	if len(codes) == 0 {
		return "", nil, fmt.Errorf("empty code list")
	}
	placeholders := ""
	args := append([]interface{}{}, fixed...)
	for i, code := range codes {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", firstIndex+i)
		args = append(args, code)
	}
	return fmt.Sprintf(format, placeholders), args, nil
}
