package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrackingCache is an in-process stand-in for the Redis cache. Values are
// stored as JSON, like the real cache does, and calls are counted.
type TrackingCache struct {
	mu       sync.Mutex
	getCalls int
	hits     int
	setCalls int
	data     map[string]cacheEntry
	setDone  chan string
}

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data:    make(map[string]cacheEntry),
		setDone: make(chan string, 16),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getCalls++
	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiry) {
		return redis.Nil
	}
	c.hits++
	return json.Unmarshal(entry.value, dest)
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.setCalls++
	c.data[key] = cacheEntry{value: data, expiry: time.Now().Add(exp)}
	c.mu.Unlock()

	c.setDone <- key
	return nil
}

func (c *TrackingCache) Close() error {
	return nil
}

// WaitForSet blocks until a value has been stored or the timeout elapses.
func (c *TrackingCache) WaitForSet(timeout time.Duration) (string, bool) {
	select {
	case key := <-c.setDone:
		return key, true
	case <-time.After(timeout):
		return "", false
	}
}

// Stats returns the number of lookups, hits and stores so far.
func (c *TrackingCache) Stats() (gets, hits, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.hits, c.setCalls
}
