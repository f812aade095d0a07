package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "report:agg:version"

// CachedAggregator wraps an Aggregator with a versioned Redis cache. A nil
// client degrades to pass-through queries, so the cache is always optional.
type CachedAggregator struct {
	inner  Aggregator
	client *redis.Client
	ttl    time.Duration
}

// NewCachedAggregator wraps inner with Redis caching.
func NewCachedAggregator(inner Aggregator, client *redis.Client, ttl time.Duration) *CachedAggregator {
	return &CachedAggregator{inner: inner, client: client, ttl: ttl}
}

// Aggregate serves cached results when present, otherwise queries the
// inner aggregator and stores the result under the current cache version.
func (c *CachedAggregator) Aggregate(ctx context.Context, accountCodes, entityCodes []string, period string) ([]Aggregate, error) {
	if c == nil || c.inner == nil {
		return nil, fmt.Errorf("report cache not initialised")
	}
	if c.client == nil {
		return c.inner.Aggregate(ctx, accountCodes, entityCodes, period)
	}

	key, err := c.buildKey(ctx, accountCodes, entityCodes, period)
	if err != nil {
		return c.inner.Aggregate(ctx, accountCodes, entityCodes, period)
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached []Aggregate
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		return nil, fmt.Errorf("report: cache get: %w", err)
	}

	facts, err := c.inner.Aggregate(ctx, accountCodes, entityCodes, period)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(facts); err == nil {
		_ = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	return facts, nil
}

// Bump invalidates every cached aggregate by advancing the version.
// Ledger-change signals call this instead of scanning for keys.
func (c *CachedAggregator) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}

func (c *CachedAggregator) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *CachedAggregator) buildKey(ctx context.Context, accountCodes, entityCodes []string, period string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(strings.Join(accountCodes, ",") + "|" + strings.Join(entityCodes, ",") + "|" + period))
	return fmt.Sprintf("report:agg:%d:%s", ver, hex.EncodeToString(sum[:16])), nil
}
