package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pscheid92/moodmatch/internal/adapter/metrics"
	"github.com/pscheid92/moodmatch/internal/domain"
)

const (
	keyPrefix = "analysis:v1:"
	// memoryCacheSize bounds the in-process layer.
	memoryCacheSize = 1024
)

// ResultCache implements domain.ResultCache with an in-memory layer in front
// of Redis. Both layers expire entries after the same TTL.
type ResultCache struct {
	rdb     goredis.Cmdable
	ttl     time.Duration
	mem     *memoryCache
	metrics *metrics.CacheMetrics
}

var _ domain.ResultCache = (*ResultCache)(nil)

// NewResultCache builds a cache. clock drives the in-memory expiry and may be
// nil; m may be nil.
func NewResultCache(rdb goredis.Cmdable, ttl time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *ResultCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ResultCache{
		rdb:     rdb,
		ttl:     ttl,
		mem:     newMemoryCache(ttl, memoryCacheSize, clock),
		metrics: m,
	}
}

func (c *ResultCache) Get(ctx context.Context, key string) (*domain.AnalysisResult, bool, error) {
	if r, ok := c.mem.get(key); ok {
		c.hit()
		return r, true, nil
	}

	data, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.miss()
		return nil, false, nil
	}
	if err != nil {
		c.fail("get")
		return nil, false, fmt.Errorf("result cache get: %w", err)
	}

	var r domain.AnalysisResult
	if err := json.Unmarshal(data, &r); err != nil {
		c.fail("decode")
		return nil, false, fmt.Errorf("result cache decode: %w", err)
	}

	c.mem.set(key, &r)
	c.hit()
	return &r, true, nil
}

func (c *ResultCache) Set(ctx context.Context, key string, result *domain.AnalysisResult) error {
	stored := *result
	stored.HistoryID = nil
	c.mem.set(key, &stored)

	encoded, err := json.Marshal(&stored)
	if err != nil {
		c.fail("encode")
		return fmt.Errorf("result cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, encoded, c.ttl).Err(); err != nil {
		c.fail("set")
		return fmt.Errorf("result cache set: %w", err)
	}
	return nil
}

// Ping checks the Redis connection for readiness probes.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *ResultCache) hit() {
	if c.metrics != nil {
		c.metrics.Hits.Inc()
	}
}

func (c *ResultCache) miss() {
	if c.metrics != nil {
		c.metrics.Misses.Inc()
	}
}

func (c *ResultCache) fail(op string) {
	if c.metrics != nil {
		c.metrics.Errors.WithLabelValues(op).Inc()
	}
}

// memoryCache is a size-bounded L1 layer with TTL expiry. When full, expired
// entries are evicted first and then the entry closest to expiry.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
	limit   int
	clock   clockwork.Clock
}

type memoryCacheEntry struct {
	result    *domain.AnalysisResult
	expiresAt time.Time
}

func newMemoryCache(ttl time.Duration, limit int, clock clockwork.Clock) *memoryCache {
	return &memoryCache{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
		limit:   limit,
		clock:   clock,
	}
}

func (c *memoryCache) get(key string) (*domain.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *memoryCache) set(key string, result *domain.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.limit {
		c.evictLocked()
	}
	c.entries[key] = memoryCacheEntry{result: result, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *memoryCache) evictLocked() {
	now := c.clock.Now()
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			continue
		}
		if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt = key, entry.expiresAt
		}
	}
	if len(c.entries) >= c.limit && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
