package search

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/wikirank/wikirank/internal/ranking"
	"github.com/wikirank/wikirank/pkg/config"
	pkgredis "github.com/wikirank/wikirank/pkg/redis"
)

const keyPrefix = "rank:"

// QueryCache caches ranked results in redis, keyed by normalized query,
// k, and scheme. Concurrent misses for the same key are collapsed through
// singleflight so the pipeline runs once.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewQueryCache creates a QueryCache over the given redis client.
func NewQueryCache(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached result for (query, k, scheme), if present.
func (c *QueryCache) Get(ctx context.Context, query string, k int, scheme string) (*ranking.Result, bool) {
	key := c.buildKey(query, k, scheme)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result ranking.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a result under (query, k, scheme) with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, query string, k int, scheme string, result *ranking.Result) {
	key := c.buildKey(query, k, scheme)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it,
// collapsing concurrent computations of the same key. The second return
// value reports whether the result came from cache. Results served with
// the zero-authority fallback are returned but not cached, so a recovered
// authority store takes effect on the next query.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	k int,
	scheme string,
	computeFn func() (*ranking.Result, error),
) (*ranking.Result, bool, error) {
	if result, ok := c.Get(ctx, query, k, scheme); ok {
		return result, true, nil
	}
	key := c.buildKey(query, k, scheme)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, k, scheme); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		if !result.AuthorityFallback {
			c.Set(ctx, query, k, scheme, result)
		}
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*ranking.Result), false, nil
}

// Invalidate removes all cached rankings.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns cumulative hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, k int, scheme string) string {
	raw := fmt.Sprintf("%s|k=%d|scheme=%s", normalizeQuery(query), k, scheme)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuery lowercases and sorts the query words so trivially
// reordered queries share a cache entry.
func normalizeQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	sort.Strings(words)
	return strings.Join(words, " ")
}
