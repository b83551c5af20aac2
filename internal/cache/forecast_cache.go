package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/optilens/replenish/internal/config"
	"github.com/optilens/replenish/internal/domain"
	"github.com/optilens/replenish/internal/forecast"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const forecastKeyPrefix = "forecast"

type ForecastCache interface {
	GetForecast(ctx context.Context, code string, history []float64) (domain.ForecastResult, bool, error)
	SetForecast(ctx context.Context, code string, history []float64, result domain.ForecastResult) error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{client: client, ttl: ttl}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) GetForecast(ctx context.Context, code string, history []float64) (domain.ForecastResult, bool, error) {
	payload, err := c.client.Get(ctx, buildForecastKey(code, history)).Bytes()
	if err == redis.Nil {
		return domain.ForecastResult{}, false, nil
	}
	if err != nil {
		return domain.ForecastResult{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result domain.ForecastResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.ForecastResult{}, false, fmt.Errorf("decode forecast cache: %w", err)
	}
	return result, true, nil
}

func (c *redisForecastCache) SetForecast(ctx context.Context, code string, history []float64, result domain.ForecastResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode forecast cache: %w", err)
	}
	if err := c.client.Set(ctx, buildForecastKey(code, history), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (n *noopForecastCache) GetForecast(context.Context, string, []float64) (domain.ForecastResult, bool, error) {
	return domain.ForecastResult{}, false, nil
}

func (n *noopForecastCache) SetForecast(context.Context, string, []float64, domain.ForecastResult) error {
	return nil
}

func buildForecastKey(code string, history []float64) string {
	parts := make([]string, 0, len(history)+1)
	parts = append(parts, code)
	for _, v := range history {
		parts = append(parts, strconv.FormatFloat(v, 'f', 4, 64))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, hex.EncodeToString(sum[:]))
}

// cachedForecastProvider serves forecasts from the cache before consulting
// the wrapped provider. Cache failures are logged and ignored.
type cachedForecastProvider struct {
	inner forecast.Provider
	cache ForecastCache
}

func NewCachedForecastProvider(inner forecast.Provider, fc ForecastCache) forecast.Provider {
	if fc == nil {
		return inner
	}
	return &cachedForecastProvider{inner: inner, cache: fc}
}

func (p *cachedForecastProvider) Forecast(ctx context.Context, code string, history []float64) (domain.ForecastResult, error) {
	if result, ok, err := p.cache.GetForecast(ctx, code, history); err == nil && ok {
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Str("code", code).Msg("forecast cache get failed")
	}

	result, err := p.inner.Forecast(ctx, code, history)
	if err != nil {
		return result, err
	}

	if err := p.cache.SetForecast(ctx, code, history, result); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("forecast cache set failed")
	}
	return result, nil
}
