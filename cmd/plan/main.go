package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/optilens/replenish/internal/cache"
	"github.com/optilens/replenish/internal/config"
	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/optimizer"
	"github.com/optilens/replenish/internal/repository"
	"github.com/optilens/replenish/internal/repository/postgres"
	"github.com/optilens/replenish/internal/rules"
	"github.com/optilens/replenish/internal/service"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string for consumption history",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "plan",
		Usage: "Run the order allocation optimizer from the command line",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Plan an order for a stock snapshot CSV (code,stock,consumption[,variant])",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Snapshot CSV file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-order",
						Usage: "Override the category minimum order volume",
					},
					&cli.BoolFlag{
						Name:  "default-rule",
						Usage: "Apply the default category rule to unknown product codes",
					},
					&cli.StringFlag{
						Name:  "plan-date",
						Usage: "Plan date (YYYY-MM-DD, default today)",
					},
					&cli.BoolFlag{
						Name:  "forecast",
						Usage: "Use the forecasted consumption strategy",
					},
					newDBURLFlag(),
				},
				Action: runPlan,
			},
			{
				Name:  "record",
				Usage: "Record daily consumption rows from a CSV (code,date,quantity)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Consumption CSV file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db-url",
						Usage:    "Database connection string",
						Required: true,
						EnvVars:  []string{"DATABASE_URL"},
					},
				},
				Action: runRecord,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPlan(c *cli.Context) error {
	skus, err := readSnapshotCSV(c.String("input"))
	if err != nil {
		return err
	}

	req := service.PlanRequest{
		SKUs:                  skus,
		MinOrderVolume:        c.Int("min-order"),
		DefaultRuleForUnknown: c.Bool("default-rule"),
	}
	if raw := c.String("plan-date"); raw != "" {
		t, err := time.Parse(domain.PlanDate, raw)
		if err != nil {
			return fmt.Errorf("invalid plan-date: %w", err)
		}
		req.PlanDate = t
	}

	var history repository.SalesHistoryRepository
	if url := c.String("db-url"); url != "" {
		db, err := postgres.NewDBFromURL("pgx", url)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		history = postgres.NewSalesHistoryRepository(db)
	}

	var strategy forecast.ConsumptionStrategy = forecast.StaticConsumptionStrategy{}
	if c.Bool("forecast") {
		strategy = forecast.NewForecastedStrategy(forecast.NewFallbackProvider(nil), nil)
	}

	cfg := config.Load()
	catalog := rules.NewCatalog()
	opt := optimizer.New(catalog, optimizer.DefaultWeights(), cfg.Optimizer.ThreatWindowDays)
	planner := service.NewPlannerService(opt, strategy, history, cache.NewNoopOrderPlanCache(), cfg.Forecast)

	plan, err := planner.PlanCategory(c.Context, req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runRecord(c *cli.Context) error {
	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewSalesHistoryRepository(db)

	f, err := os.Open(c.String("input"))
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 3 || strings.EqualFold(record[0], "code") {
			continue
		}

		day, err := time.Parse(domain.PlanDate, strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", record[1], err)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", record[2], err)
		}

		if err := repo.RecordConsumption(c.Context, strings.TrimSpace(record[0]), day, qty); err != nil {
			return err
		}
		count++
	}

	log.Printf("recorded %d consumption rows", count)
	return nil
}

func readSnapshotCSV(path string) ([]domain.SKU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var skus []domain.SKU
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 3 || strings.EqualFold(record[0], "code") {
			continue
		}

		stock, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid stock %q: %w", record[1], err)
		}
		consumption, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid consumption %q: %w", record[2], err)
		}

		sku := domain.SKU{
			Code:             strings.TrimSpace(record[0]),
			CurrentStock:     stock,
			DailyConsumption: consumption,
		}
		if len(record) > 3 {
			sku.VariantLabel = strings.TrimSpace(record[3])
		}
		skus = append(skus, sku)
	}

	if len(skus) == 0 {
		return nil, fmt.Errorf("no snapshot rows in %s", path)
	}
	return skus, nil
}
