package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/redis/go-redis/v9"
)

// CacheRepository stores JSON values with a TTL. A miss is (false, nil).
type CacheRepository interface {
	Get(ctx context.Context, key string, v interface{}) (bool, error)
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisCacheRepository struct {
	name   string
	client *redis.Client
}

func (c *redisCacheRepository) Get(ctx context.Context, key string, v interface{}) (bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return false, nil
	}
	if err == nil {
		err = json.Unmarshal(payload, v)
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return false, err
	}
	metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return true, nil
}

func (c *redisCacheRepository) Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *redisCacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func NewCacheRepository(name string, client *redis.Client) CacheRepository {
	return &redisCacheRepository{
		name:   name,
		client: client,
	}
}
