// Package cache provides the response cache for dashboard reads: a redis
// backend when caching is enabled, a no-op fallback otherwise.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/maishenyun/stockboard/internal/config"
)

const (
	responseKeyPrefix = "stockboard:response"
	scanBatchSize     = 100
)

// ResponseCache caches rendered API payloads keyed by endpoint and request
// parameters. Implementations must be safe for concurrent use.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

// NewResponseCache returns a redis-backed cache when enabled, a no-op cache
// otherwise.
func NewResponseCache(cfg config.CacheConfig) (ResponseCache, error) {
	if !cfg.Enabled {
		return &noopResponseCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisResponseCache{client: client, ttl: ttl}, nil
}

// NewNoopResponseCache returns a cache that never hits.
func NewNoopResponseCache() ResponseCache {
	return &noopResponseCache{}
}

type noopResponseCache struct{}

func (n *noopResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopResponseCache) Set(ctx context.Context, key string, payload []byte) error {
	return nil
}

func (n *noopResponseCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopResponseCache) Close() error {
	return nil
}

// Key builds a stable cache key from an endpoint name and its parameters.
// Parts are trimmed, lowercased and sorted, so equivalent requests share an
// entry regardless of parameter order.
func Key(endpoint string, parts ...string) string {
	normalized := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}

	if len(normalized) == 0 {
		return fmt.Sprintf("%s:%s:default", responseKeyPrefix, endpoint)
	}

	sort.Strings(normalized)
	sum := sha1.Sum([]byte(strings.Join(normalized, "|")))
	return fmt.Sprintf("%s:%s:%s", responseKeyPrefix, endpoint, hex.EncodeToString(sum[:]))
}
