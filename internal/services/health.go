package services

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dpup/routeintel/server/internal/cache"
	"github.com/dpup/routeintel/server/internal/lib/briefing"
)

// HealthPath serves the health report.
const HealthPath = "/api/v1/health"

const healthCheckTimeout = 10 * time.Second

// HealthStatus summarizes the local cache and the briefing provider.
type HealthStatus struct {
	Status          string           `json:"status"`
	Cache           cache.CacheStats `json:"cache"`
	CachedReports   int              `json:"cached_reports"`
	CachedBriefings int              `json:"cached_briefings"`
	Briefing        string           `json:"briefing"`
}

// HealthService reports on the cache and briefing narrator. narrator may be
// nil when briefings are disabled.
type HealthService struct {
	cache    *cache.Cache
	narrator briefing.Narrator
}

// NewHealthService creates a new HealthService.
func NewHealthService(c *cache.Cache, narrator briefing.Narrator) *HealthService {
	return &HealthService{cache: c, narrator: narrator}
}

// Check gathers cache statistics and probes the narrator. A failing narrator
// marks the service degraded since enrichment still works without it.
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:   "ok",
		Cache:    h.cache.Stats(),
		Briefing: "disabled",
	}
	for _, key := range h.cache.Keys() {
		switch {
		case strings.HasPrefix(key, "report:"):
			status.CachedReports++
		case strings.HasPrefix(key, "briefing:"):
			status.CachedBriefings++
		}
	}

	if h.narrator != nil {
		ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
		if err := h.narrator.HealthCheck(ctx); err != nil {
			log.Printf("Briefing health check failed: %v", err)
			status.Status = "degraded"
			status.Briefing = err.Error()
		} else {
			status.Briefing = "ok"
		}
	}
	return status
}

func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.Check(r.Context()))
}
