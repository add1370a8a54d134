// Package cache keeps computed dashboard stats close to the API.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flight-booking/internal/dto/response"

	"github.com/redis/go-redis/v9"
)

const statsPrefix = "cache:dashboard:stats:"

// StatsCache stores dashboard stats per scope. Get returns nil on a miss.
type StatsCache interface {
	Get(ctx context.Context, scope string) (*response.DashboardStats, error)
	Set(ctx context.Context, scope string, stats *response.DashboardStats) error
	Invalidate(ctx context.Context) error
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

// NewRedisClient opens a client and checks it with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (c *RedisStatsCache) Get(ctx context.Context, scope string) (*response.DashboardStats, error) {
	data, err := c.client.Get(ctx, statsKey(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats response.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, scope string, stats *response.DashboardStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(scope), payload, c.ttl).Err()
}

// Invalidate drops every cached scope.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, statsPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func statsKey(scope string) string {
	return statsPrefix + scope
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*response.DashboardStats, error) { return nil, nil }
func (Noop) Set(context.Context, string, *response.DashboardStats) error   { return nil }
func (Noop) Invalidate(context.Context) error                              { return nil }
