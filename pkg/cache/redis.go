package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded values. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error

	// Generation returns the counter stored at key, 0 when unset. Callers
	// put it in their keys so that Bump orphans every entry written under
	// an older generation, including ones written late by slow readers.
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// NewRedisClient connects and pings. It returns nil when Redis cannot be
// reached so callers can fall back to Noop.
func NewRedisClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[Redis] unavailable at %s: %v", addr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("[Redis] connected to %s", addr)
	return client
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	bs, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(bs, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) Generation(ctx context.Context, key string) (int64, error) {
	n, err := c.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return n, nil
}

func (c *RedisCache) Bump(ctx context.Context, key string) error {
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis incr %s: %w", key, err)
	}
	return nil
}

// Noop is used when Redis is not configured or not reachable.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)    { return false, nil }
func (Noop) Set(context.Context, string, any) error            { return nil }
func (Noop) Delete(context.Context, ...string) error           { return nil }
func (Noop) Generation(context.Context, string) (int64, error) { return 0, nil }
func (Noop) Bump(context.Context, string) error                { return nil }
