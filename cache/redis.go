package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DivyaP1063/shophub/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func InitRedis(addr, password string, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr))
	return rdb, nil
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// ProductCache is a read-through cache of single products. A nil client
// disables it; every method is then a no-op or a miss. Redis errors are
// logged and treated as misses.
type ProductCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Product cache read failed", zap.String("product_id", id), zap.Error(err))
		}
		return nil, false
	}

	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("Discarding corrupt cache entry", zap.String("product_id", id), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Product cache write failed", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (c *ProductCache) Invalidate(ctx context.Context, ids ...string) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Product cache invalidation failed", zap.Strings("product_ids", ids), zap.Error(err))
	}
}
