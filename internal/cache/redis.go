package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

const redisKeyPrefix = "analysis:"

// RedisCache is the externally persisted backend, for deployments where
// analyses should survive a restart or be shared across replicas. Entries
// are JSON records keyed by fingerprint; TTL 0 keeps them forever, matching
// the in-memory backend.
type RedisCache struct {
	client *redis.Client
	cfg    config.CacheConfig
	logger logger.Logger
}

func NewRedisCache(cfg config.CacheConfig, log logger.Logger) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		}),
		cfg:    cfg,
		logger: log,
	}
}

func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*models.Analysis, bool, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get analysis from redis: %w", err)
	}

	var analysis models.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return &analysis, true, nil
}

func (c *RedisCache) Put(ctx context.Context, fingerprint string, analysis *models.Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+fingerprint, data, c.cfg.RedisTTL).Err(); err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, fingerprint string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+fingerprint).Err(); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
