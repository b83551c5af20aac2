package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/optilens/replenish/internal/config"
	"github.com/optilens/replenish/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	orderPlanKeyPrefix     = "order_plan"
	orderPlanScanBatchSize = 100
)

// PlanKey captures everything that changes the optimizer output for a
// given snapshot, including the consumption history feeding the forecast.
// Two requests with the same key get the same plan, so it is safe to
// serve one from cache.
type PlanKey struct {
	SKUs           []domain.SKU
	History        map[string][]float64
	MinOrderVolume int
	DefaultRule    bool
	PlanDate       string
}

type OrderPlanCache interface {
	GetPlan(ctx context.Context, key PlanKey) (*domain.OrderPlan, bool, error)
	SetPlan(ctx context.Context, key PlanKey, plan *domain.OrderPlan) error
	InvalidateAll(ctx context.Context) error
}

type redisOrderPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopOrderPlanCache struct{}

func NewOrderPlanCache(cfg config.CacheConfig) (OrderPlanCache, error) {
	if !cfg.Enabled {
		return &noopOrderPlanCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisOrderPlanCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopOrderPlanCache() OrderPlanCache {
	return &noopOrderPlanCache{}
}

func (c *redisOrderPlanCache) GetPlan(ctx context.Context, key PlanKey) (*domain.OrderPlan, bool, error) {
	payload, err := c.client.Get(ctx, buildOrderPlanKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var plan domain.OrderPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, false, fmt.Errorf("decode order plan cache: %w", err)
	}

	return &plan, true, nil
}

func (c *redisOrderPlanCache) SetPlan(ctx context.Context, key PlanKey, plan *domain.OrderPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode order plan cache: %w", err)
	}

	if err := c.client.Set(ctx, buildOrderPlanKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisOrderPlanCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, orderPlanKeyPrefix, orderPlanScanBatchSize)
}

func (n *noopOrderPlanCache) GetPlan(ctx context.Context, key PlanKey) (*domain.OrderPlan, bool, error) {
	return nil, false, nil
}

func (n *noopOrderPlanCache) SetPlan(ctx context.Context, key PlanKey, plan *domain.OrderPlan) error {
	return nil
}

func (n *noopOrderPlanCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildOrderPlanKey(key PlanKey) string {
	return fmt.Sprintf("%s:%s", orderPlanKeyPrefix, planKeyHash(key))
}

// planKeyHash normalizes the snapshot (SKUs and history series sorted by
// code) before hashing so request ordering does not fragment the cache.
func planKeyHash(key PlanKey) string {
	parts := make([]string, 0, len(key.SKUs)+len(key.History)+3)

	skus := make([]domain.SKU, len(key.SKUs))
	copy(skus, key.SKUs)
	sort.Slice(skus, func(i, j int) bool { return skus[i].Code < skus[j].Code })
	for _, sku := range skus {
		parts = append(parts, fmt.Sprintf("sku=%s:%.4f:%.4f:%s", sku.Code, sku.CurrentStock, sku.DailyConsumption, sku.VariantLabel))
	}

	if len(key.History) > 0 {
		codes := make([]string, 0, len(key.History))
		for code := range key.History {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			values := make([]string, 0, len(key.History[code]))
			for _, v := range key.History[code] {
				values = append(values, fmt.Sprintf("%.4f", v))
			}
			parts = append(parts, fmt.Sprintf("hist=%s:%s", code, strings.Join(values, ",")))
		}
	}

	if key.MinOrderVolume > 0 {
		parts = append(parts, fmt.Sprintf("min_order=%d", key.MinOrderVolume))
	}
	if key.DefaultRule {
		parts = append(parts, "default_rule=1")
	}
	if key.PlanDate != "" {
		parts = append(parts, "plan_date="+strings.TrimSpace(key.PlanDate))
	}

	if len(parts) == 0 {
		return "default"
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
