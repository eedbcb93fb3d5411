package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dpup/routeintel/server/internal/config"
)

// RouteRefresher re-enriches one monitored route.
type RouteRefresher interface {
	RefreshRoute(ctx context.Context, route config.MonitoredRoute) error
}

// PeriodicRefreshService re-enriches the monitored routes on an interval so
// their reports stay available under the route IDs.
type PeriodicRefreshService struct {
	refresher RouteRefresher
	config    *config.MonitorConfig
	timeout   time.Duration

	// Background refresh control
	mu       sync.Mutex
	stopChan chan struct{}
	running  bool
}

// NewPeriodicRefreshService creates a new periodic refresh service
func NewPeriodicRefreshService(refresher RouteRefresher, config *config.MonitorConfig) *PeriodicRefreshService {
	return &PeriodicRefreshService{
		refresher: refresher,
		config:    config,
		timeout:   10 * time.Minute,
	}
}

// StartPeriodicRefresh refreshes every monitored route immediately and then
// once per configured interval.
func (p *PeriodicRefreshService) StartPeriodicRefresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil // Already running
	}
	if len(p.config.Routes) == 0 {
		log.Printf("No monitored routes configured - periodic refresh disabled")
		return nil
	}

	interval := p.config.RefreshInterval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	p.running = true
	p.stopChan = make(chan struct{})
	log.Printf("Starting periodic refresh of %d routes every %v", len(p.config.Routes), interval)

	go p.refreshLoop(ctx, interval, p.stopChan)
	return nil
}

// Stop gracefully stops the periodic refresh
func (p *PeriodicRefreshService) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}

	p.running = false
	close(p.stopChan)
	log.Printf("Stopped periodic refresh service")
}

// IsRunning returns whether periodic refresh is active
func (p *PeriodicRefreshService) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *PeriodicRefreshService) refreshLoop(ctx context.Context, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do initial refresh immediately
	p.refreshAll(ctx, stop)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Periodic refresh stopping due to context cancellation")
			return
		case <-stop:
			log.Printf("Periodic refresh stopping due to stop signal")
			return
		case <-ticker.C:
			p.refreshAll(ctx, stop)
		}
	}
}

// refreshAll refreshes the routes one after another. A failed route is
// logged and the others still run.
func (p *PeriodicRefreshService) refreshAll(ctx context.Context, stop <-chan struct{}) {
	start := time.Now()
	var failed int
	for _, route := range p.config.Routes {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		default:
		}

		refreshCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.refresher.RefreshRoute(refreshCtx, route)
		cancel()
		if err != nil {
			failed++
			log.Printf("Periodic refresh of %s failed: %v", route.ID, err)
		}
	}
	log.Printf("Periodic refresh: %d routes refreshed, %d failed in %v",
		len(p.config.Routes)-failed, failed, time.Since(start).Round(time.Millisecond))
}
