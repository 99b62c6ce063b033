// Package cache stores computed dashboard summaries in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/demand-service/internal/dashboard"
)

const (
	keyPrefix     = "dashboard"
	generationKey = keyPrefix + ":generation"
)

// DashboardCache keeps summaries per filter. Invalidation bumps a generation
// counter so stale entries are never read and expire on their own.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDashboardCache builds a cache. A nil client yields a cache that always
// misses.
func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (c *DashboardCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached summary for filter. A miss returns (nil, nil).
func (c *DashboardCache) Get(ctx context.Context, filter dashboard.Filter) (*dashboard.Summary, error) {
	if !c.Enabled() {
		return nil, nil
	}
	key, err := c.key(ctx, filter)
	if err != nil {
		return nil, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary dashboard.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, nil
}

// Set stores summary under filter for the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, filter dashboard.Filter, summary dashboard.Summary) error {
	if !c.Enabled() {
		return nil
	}
	key, err := c.key(ctx, filter)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate drops every cached summary.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Incr(ctx, generationKey).Err()
}

func (c *DashboardCache) key(ctx context.Context, filter dashboard.Filter) (string, error) {
	generation, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, generation, filter.Key()), nil
}
