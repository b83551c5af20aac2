// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/optilens/replenish/internal/api"
	"github.com/optilens/replenish/internal/cache"
	"github.com/optilens/replenish/internal/config"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/optimizer"
	"github.com/optilens/replenish/internal/repository"
	"github.com/optilens/replenish/internal/repository/postgres"
	"github.com/optilens/replenish/internal/rules"
	"github.com/optilens/replenish/internal/service"
	"github.com/optilens/replenish/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Consumption history is optional; the planner falls back to the
	// snapshot figures without it.
	var history repository.SalesHistoryRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		history = postgres.NewSalesHistoryRepository(db)
	}

	planCache, err := cache.NewOrderPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Plan cache unavailable, continuing without it")
		planCache = cache.NewNoopOrderPlanCache()
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, continuing without it")
		forecastCache = cache.NewNoopForecastCache()
	}

	catalog := rules.NewCatalog()
	opt := optimizer.New(catalog, optimizerWeights(cfg.Optimizer), cfg.Optimizer.ThreatWindowDays)
	provider := cache.NewCachedForecastProvider(forecast.NewFallbackProvider(nil), forecastCache)
	strategy := forecast.NewForecastedStrategy(provider, nil)
	planner := service.NewPlannerService(opt, strategy, history, planCache, cfg.Forecast)

	router := api.NewRouter(&api.Services{Planner: planner, Catalog: catalog}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func optimizerWeights(cfg config.OptimizerConfig) optimizer.Weights {
	w := optimizer.DefaultWeights()
	if cfg.BasePriority != 0 {
		w.BasePriority = cfg.BasePriority
	}
	if cfg.ConfidenceWeight != 0 {
		w.ConfidenceWeight = cfg.ConfidenceWeight
	}
	if cfg.TrendIncreasingBonus != 0 {
		w.TrendIncreasingBonus = cfg.TrendIncreasingBonus
	}
	if cfg.TrendDecreasingPenalty != 0 {
		w.TrendDecreasingPenalty = cfg.TrendDecreasingPenalty
	}
	return w
}
