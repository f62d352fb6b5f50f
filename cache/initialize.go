package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"recipe-service/config"

	"github.com/redis/go-redis/v9"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const recipeListKeyPrefix = "recipes:list:"

// RecipeListCache caches the serialized GET /recipes response.
//
// Entries are keyed by a version the caller reads from storage before it
// lists (the recipe count, which only grows). A write that commits moves the
// version on by itself, so nothing has to be invalidated and a failed Redis
// call can never leave an old list visible.
type RecipeListCache interface {
	Lookup(ctx context.Context, version int64) ([]byte, error)
	Store(ctx context.Context, version int64, data []byte) error
	Close() error
}

// InitializeCache connects to Redis when REDIS_ADDR is configured. Without it
// (or with a zero TTL) list caching is disabled.
func InitializeCache(ctx context.Context, cfg *config.Config) (RecipeListCache, error) {
	if cfg.RedisAddr == "" || cfg.RecipeCacheTTL == 0 {
		logger.Info("Recipe cache disabled")
		return NopCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("Recipe cache connected", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RecipeCacheTTL))
	return NewRedisCache(client, cfg.RecipeCacheTTL), nil
}

// RedisCache is a RecipeListCache backed by Redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client. Stored lists expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func listKey(version int64) string {
	return recipeListKeyPrefix + strconv.FormatInt(version, 10)
}

// Lookup returns the list stored for version, or nil on a miss.
func (c *RedisCache) Lookup(ctx context.Context, version int64) ([]byte, error) {
	data, err := c.client.Get(ctx, listKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *RedisCache) Store(ctx context.Context, version int64, data []byte) error {
	return c.client.Set(ctx, listKey(version), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Lookup(context.Context, int64) ([]byte, error) { return nil, nil }
func (NopCache) Store(context.Context, int64, []byte) error { return nil }
func (NopCache) Close() error { return nil }
