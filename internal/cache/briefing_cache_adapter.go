package cache

import (
	"fmt"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/briefing"
)

// BriefingCacheAdapter makes the main Cache implement briefing.Cache
type BriefingCacheAdapter struct {
	cache *Cache
}

var _ briefing.Cache = (*BriefingCacheAdapter)(nil)

// NewBriefingCacheAdapter creates an adapter for briefing caching
func NewBriefingCacheAdapter(cache *Cache) *BriefingCacheAdapter {
	return &BriefingCacheAdapter{cache: cache}
}

// SetBriefing implements briefing.Cache
func (a *BriefingCacheAdapter) SetBriefing(contentHash string, b briefing.Briefing, ttl time.Duration) error {
	return a.cache.Set(briefingKey(contentHash), b, ttl, "briefing")
}

// GetBriefing implements briefing.Cache
func (a *BriefingCacheAdapter) GetBriefing(contentHash string) (briefing.Briefing, bool, error) {
	var b briefing.Briefing
	found, err := a.cache.Get(briefingKey(contentHash), &b)
	if err != nil || !found {
		return briefing.Briefing{}, false, err
	}
	return b, true, nil
}

func briefingKey(contentHash string) string {
	return fmt.Sprintf("briefing:%s", contentHash)
}
