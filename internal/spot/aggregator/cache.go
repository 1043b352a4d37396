package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"spot/internal/ledger"
	"spot/pkg/platform/sentinel"
)

// Cache holds event details keyed by event id. Get returns
// sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, eventID uint64) (*ledger.Event, error)
	Set(ctx context.Context, ev *ledger.Event) error
}

// InMemoryCache is a process-local Cache with per-entry expiry.
type InMemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	event     ledger.Event
	expiresAt time.Time
}

// NewInMemoryCache builds a cache; a zero ttl keeps entries forever.
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uint64]cacheEntry),
	}
}

func (c *InMemoryCache) Get(_ context.Context, eventID uint64) (*ledger.Event, error) {
	c.mu.RLock()
	entry, ok := c.entries[eventID]
	c.mu.RUnlock()
	if !ok || (!entry.expiresAt.IsZero() && c.now().After(entry.expiresAt)) {
		return nil, sentinel.ErrNotFound
	}
	ev := entry.event
	return &ev, nil
}

func (c *InMemoryCache) Set(_ context.Context, ev *ledger.Event) error {
	entry := cacheEntry{event: *ev}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[ev.EventID] = entry
	c.mu.Unlock()
	return nil
}

const redisKeyPrefix = "spot:event:"

// RedisCache shares event details across instances.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func redisKey(eventID uint64) string {
	return redisKeyPrefix + strconv.FormatUint(eventID, 10)
}

func (c *RedisCache) Get(ctx context.Context, eventID uint64) (*ledger.Event, error) {
	raw, err := c.client.Get(ctx, redisKey(eventID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get event %d: %w", eventID, err)
	}
	var ev ledger.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode cached event %d: %w", eventID, err)
	}
	return &ev, nil
}

func (c *RedisCache) Set(ctx context.Context, ev *ledger.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %d: %w", ev.EventID, err)
	}
	if err := c.client.Set(ctx, redisKey(ev.EventID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set event %d: %w", ev.EventID, err)
	}
	return nil
}
