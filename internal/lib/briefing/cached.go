package briefing

import (
	"context"
	"log"
	"time"
)

// DefaultTTL is how long a narrated briefing is reused.
const DefaultTTL = 24 * time.Hour

// Cache stores briefings by content hash.
type Cache interface {
	SetBriefing(contentHash string, b Briefing, ttl time.Duration) error
	GetBriefing(contentHash string) (Briefing, bool, error)
}

// CachedNarrator wraps a Narrator with content-based caching
type CachedNarrator struct {
	narrator Narrator
	cache    Cache
	hasher   *ContentHasher
	ttl      time.Duration
}

// NewCachedNarrator creates a narrator that reuses briefings for identical input
func NewCachedNarrator(narrator Narrator, cache Cache, ttl time.Duration) *CachedNarrator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedNarrator{
		narrator: narrator,
		cache:    cache,
		hasher:   NewContentHasher(),
		ttl:      ttl,
	}
}

// Narrate checks the cache first, then calls the underlying narrator and
// caches the result.
func (c *CachedNarrator) Narrate(ctx context.Context, in Input) (Briefing, error) {
	contentHash := c.hasher.Hash(in)

	if cached, found, err := c.cache.GetBriefing(contentHash); err == nil && found {
		log.Printf("Cache hit for briefing content hash %s", contentHash[:8])
		return cached, nil
	}

	log.Printf("Cache miss for briefing content hash %s - calling narrator", contentHash[:8])

	b, err := c.narrator.Narrate(ctx, in)
	if err != nil {
		log.Printf("Briefing narration failed for %s: %v", contentHash[:8], err)
		return b, err
	}

	// A cache failure does not fail the request.
	if err := c.cache.SetBriefing(contentHash, b, c.ttl); err != nil {
		log.Printf("Failed to cache briefing: %v", err)
	}
	return b, nil
}

// HealthCheck delegates to underlying narrator
func (c *CachedNarrator) HealthCheck(ctx context.Context) error {
	return c.narrator.HealthCheck(ctx)
}
