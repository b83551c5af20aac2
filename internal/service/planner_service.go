package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/optilens/replenish/internal/cache"
	"github.com/optilens/replenish/internal/config"
	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/optilens/replenish/internal/optimizer"
	"github.com/optilens/replenish/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PlanRequest is the boundary shape for one optimization run. History is
// optional; when absent and a sales history repository is wired, the
// service pulls the series itself.
type PlanRequest struct {
	SKUs                  []domain.SKU
	History               forecast.History
	MinOrderVolume        int
	DefaultRuleForUnknown bool
	PlanDate              time.Time
}

// PlannerService sits between transport and the optimizer: boundary
// validation, history fetch, plan caching, and the category fan-out.
type PlannerService struct {
	optimizer *optimizer.Optimizer
	strategy  forecast.ConsumptionStrategy
	history   repository.SalesHistoryRepository
	orders    repository.PurchaseOrderCreator
	planCache cache.OrderPlanCache
	fcCfg     config.ForecastConfig
}

func NewPlannerService(
	opt *optimizer.Optimizer,
	strategy forecast.ConsumptionStrategy,
	history repository.SalesHistoryRepository,
	planCache cache.OrderPlanCache,
	fcCfg config.ForecastConfig,
) *PlannerService {
	if planCache == nil {
		planCache = cache.NewNoopOrderPlanCache()
	}
	if strategy == nil {
		strategy = forecast.StaticConsumptionStrategy{}
	}
	return &PlannerService{
		optimizer: opt,
		strategy:  strategy,
		history:   history,
		planCache: planCache,
		fcCfg:     fcCfg,
	}
}

// WithOrderCreator wires an ERP purchase order integration. Optional;
// SubmitPlan fails cleanly without one.
func (s *PlannerService) WithOrderCreator(creator repository.PurchaseOrderCreator) *PlannerService {
	s.orders = creator
	return s
}

// PlanCategory runs one optimization over a category snapshot.
func (s *PlannerService) PlanCategory(ctx context.Context, req PlanRequest) (*domain.OrderPlan, error) {
	if len(req.SKUs) == 0 {
		return nil, domain.ErrEmptySnapshot
	}

	key := cache.PlanKey{
		SKUs:           req.SKUs,
		History:        req.History,
		MinOrderVolume: req.MinOrderVolume,
		DefaultRule:    req.DefaultRuleForUnknown,
	}
	if !req.PlanDate.IsZero() {
		key.PlanDate = domain.FormatPlanDate(req.PlanDate)
	}

	if plan, ok, err := s.planCache.GetPlan(ctx, key); err == nil && ok {
		return plan, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("planner: cache get failed")
	}

	history := req.History
	if len(history) == 0 && s.history != nil {
		codes := make([]string, 0, len(req.SKUs))
		for _, sku := range req.SKUs {
			codes = append(codes, sku.Code)
		}
		fetched, err := s.history.ConsumptionHistory(ctx, codes, s.historyDays())
		if err != nil {
			log.Warn().Err(err).Msg("planner: consumption history unavailable, planning without it")
		} else {
			history = fetched
		}
	}

	runCtx := ctx
	if timeout := s.forecastTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	plan, err := s.optimizer.Plan(runCtx, optimizer.Request{
		SKUs:                  req.SKUs,
		History:               history,
		MinOrderVolume:        req.MinOrderVolume,
		DefaultRuleForUnknown: req.DefaultRuleForUnknown,
		Now:                   req.PlanDate,
	}, s.strategy)
	if err != nil {
		return nil, err
	}

	if err := s.planCache.SetPlan(ctx, key, plan); err != nil {
		log.Warn().Err(err).Msg("planner: cache set failed")
	}

	return plan, nil
}

// PlanCategories runs one optimization per named group concurrently. Each
// group gets its own snapshot copy so runs never share mutable state. The
// first failing group aborts the batch.
func (s *PlannerService) PlanCategories(ctx context.Context, groups map[string]PlanRequest) (map[string]*domain.OrderPlan, error) {
	if len(groups) == 0 {
		return nil, domain.ErrEmptySnapshot
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	plans := make([]*domain.OrderPlan, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		req := copyPlanRequest(groups[name])
		g.Go(func() error {
			plan, err := s.PlanCategory(gctx, req)
			if err != nil {
				return fmt.Errorf("category %s: %w", name, err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*domain.OrderPlan, len(names))
	for i, name := range names {
		out[name] = plans[i]
	}
	return out, nil
}

// SubmitPlan pushes a finished plan to the ERP as a purchase order.
func (s *PlannerService) SubmitPlan(ctx context.Context, plan *domain.OrderPlan) (string, error) {
	if s.orders == nil {
		return "", fmt.Errorf("no purchase order integration configured")
	}
	if plan == nil || !plan.OrderNeeded {
		return "", fmt.Errorf("plan has nothing to order")
	}
	return s.orders.CreatePurchaseOrder(ctx, plan)
}

func (s *PlannerService) historyDays() int {
	if s.fcCfg.HistoryDays > 0 {
		return s.fcCfg.HistoryDays
	}
	return 90
}

func (s *PlannerService) forecastTimeout() time.Duration {
	if s.fcCfg.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(s.fcCfg.TimeoutSeconds) * time.Second
}

func copyPlanRequest(req PlanRequest) PlanRequest {
	out := req
	out.SKUs = make([]domain.SKU, len(req.SKUs))
	copy(out.SKUs, req.SKUs)
	if len(req.History) > 0 {
		out.History = make(forecast.History, len(req.History))
		for code, series := range req.History {
			s := make([]float64, len(series))
			copy(s, series)
			out.History[code] = s
		}
	}
	return out
}
