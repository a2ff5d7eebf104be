package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/stellar-lakers/stellar-gateway/internal/models"
)

// MonthCache holds fetched event batches keyed by (month, year) so repeat
// views of a month within the TTL do not re-bill the generative service.
// With a redis client it shares entries across instances; without one it
// degrades to a per-process map. Any redis error is treated as a miss —
// the cache must never turn into a request failure.
type MonthCache struct {
	redis  *redis.Client // nil enables the in-memory store
	ttl    time.Duration
	logger *zap.Logger

	mu  sync.RWMutex
	mem map[string]memoryEntry
}

type memoryEntry struct {
	events    []models.Event
	expiresAt time.Time
}

// NewMonthCache builds a cache. redisClient may be nil.
func NewMonthCache(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *MonthCache {
	return &MonthCache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.Named("month_cache"),
		mem:    make(map[string]memoryEntry),
	}
}

func cacheKey(month int, year int) string {
	return fmt.Sprintf("events:%04d-%02d", year, month)
}

// Get returns the cached batch for a month, if present and fresh.
func (c *MonthCache) Get(ctx context.Context, month int, year int) ([]models.Event, bool) {
	key := cacheKey(month, year)

	if c.redis != nil {
		payload, err := c.redis.Get(ctx, key).Result()
		if err != nil {
			if err != redis.Nil {
				c.logger.Warn("Redis read failed, treating as miss", zap.Error(err), zap.String("key", key))
			}
			return nil, false
		}
		var events []models.Event
		if err := json.Unmarshal([]byte(payload), &events); err != nil {
			c.logger.Warn("Dropping undecodable cache entry", zap.Error(err), zap.String("key", key))
			c.redis.Del(ctx, key)
			return nil, false
		}
		return events, true
	}

	c.mu.RLock()
	entry, ok := c.mem[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.events, true
}

// Put stores a fetched batch under its month key for the cache TTL.
func (c *MonthCache) Put(ctx context.Context, month int, year int, events []models.Event) {
	key := cacheKey(month, year)

	if c.redis != nil {
		payload, err := json.Marshal(events)
		if err != nil {
			c.logger.Error("Failed to marshal cache entry", zap.Error(err), zap.String("key", key))
			return
		}
		if err := c.redis.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("Redis write failed", zap.Error(err), zap.String("key", key))
		}
		return
	}

	c.mu.Lock()
	c.mem[key] = memoryEntry{events: events, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
