package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
)

// Cache provides thread-safe in-memory caching with TTL
type Cache struct {
	entries map[string]*CacheEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

// CacheEntry represents a cached item with metadata
type CacheEntry struct {
	Key       string        `json:"key"`
	Data      []byte        `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	TTL       time.Duration `json:"ttl"`
	Source    string        `json:"source"`
}

// NewCache creates a new in-memory cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
		now:     time.Now,
	}
}

// Set stores data in cache as JSON until ttl elapses
func (c *Cache) Set(key string, data any, ttl time.Duration, source string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}
	c.SetRaw(key, jsonData, ttl, source)
	return nil
}

// SetRaw stores already encoded data.
func (c *Cache) SetRaw(key string, data []byte, ttl time.Duration, source string) {
	now := c.now()
	entry := &CacheEntry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
		Source:    source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[key] = entry
}

// Get retrieves data from cache if not stale
func (c *Cache) Get(key string, result any) (bool, error) {
	data, ok := c.GetRaw(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}
	return true, nil
}

// GetRaw returns the encoded data of a fresh entry.
func (c *Cache) GetRaw(key string) ([]byte, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Data, true
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Keys returns all cache keys
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.now()
	stats := CacheStats{
		TotalEntries: len(c.entries),
	}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CleanupStale removes all stale entries from cache
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	var removed int

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartPeriodicCleanup starts a goroutine that removes stale entries every
// interval until ctx is done.
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					logging.Infow(ctx, "Cache cleanup: removed stale entries", "removed", removed)
				}
			}
		}
	}()
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int       `json:"total_entries"`
	FreshEntries int       `json:"fresh_entries"`
	StaleEntries int       `json:"stale_entries"`
	OldestEntry  time.Time `json:"oldest_entry"`
	NewestEntry  time.Time `json:"newest_entry"`
}
