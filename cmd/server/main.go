package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"

	"github.com/dpup/prefab"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dpup/routeintel/server/internal/cache"
	"github.com/dpup/routeintel/server/internal/config"
	"github.com/dpup/routeintel/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration:\n%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize cache
	cacheInstance := cache.NewCache()
	cacheInstance.StartPeriodicCleanup(ctx, appConfig.Cache.CleanupInterval)

	components, err := services.BuildPipeline(appConfig, cacheInstance)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	reports, err := services.BuildReportStore(appConfig.Cache, cacheInstance)
	if err != nil {
		log.Fatalf("Failed to create report store: %v", err)
	}
	defer reports.Close()

	enrichment := services.NewEnrichmentService(components.Pipeline, components.Directions, reports)

	log.Printf("Route enrichment server starting")
	log.Printf("Routes monitored: %d", len(appConfig.Monitor.Routes))

	periodicRefresh := services.NewPeriodicRefreshService(enrichment, &appConfig.Monitor)
	if err := periodicRefresh.StartPeriodicRefresh(ctx); err != nil {
		log.Printf("Failed to start periodic refresh: %v", err)
	}
	defer periodicRefresh.Stop()

	health := services.NewHealthService(cacheInstance, components.Narrator)

	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	api := enrichment.Handler()
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc(services.EnrichPath, api.ServeHTTP),
		prefab.WithHTTPHandlerFunc(services.EnrichPath+"/", api.ServeHTTP),
		prefab.WithHTTPHandlerFunc(services.HealthPath, health.ServeHTTP),
		prefab.WithHTTPHandlerFunc("/metrics", promhttp.Handler().ServeHTTP),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig overlays Prefab's config on the defaults. Configuration is loaded
// from prefab.yaml and environment variables with PF__ prefix.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	sections := []struct {
		key    string
		target any
	}{
		{"providers", &appConfig.Providers},
		{"enrichment", &appConfig.Enrichment},
		{"cache", &appConfig.Cache},
		{"briefing", &appConfig.Briefing},
		{"monitor", &appConfig.Monitor},
	}
	for _, s := range sections {
		if err := prefab.Config.Unmarshal(s.key, s.target); err != nil {
			log.Fatalf("Failed to unmarshal %s section: %v", s.key, err)
		}
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>routeintel</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        .header { color: #ff0; }
        pre { margin: 0; }
    </style>
</head>
<body>
<pre>
<span class="header">routeintel</span>

Route enrichment for delivery planning: terrain, gradients, sharp turns,
traffic, roadwork, seasonal hazards and emergency services along a route.

<span class="header">API Endpoints:</span>

  POST /api/v1/enrich                    - Enrich a route (points, polyline or origin/destination)
  GET  /api/v1/enrich/{id}               - Stored enrichment bundle
  GET  /api/v1/enrich/{id}/tables.xlsx   - Printable tables workbook
  GET  /api/v1/enrich/{id}/route.kml     - Route and hazards for Google Earth
  DELETE /api/v1/enrich/{id}             - Drop a stored bundle
  GET  /api/v1/health                    - Cache statistics and briefing provider status
  GET  /metrics                          - Prometheus metrics

Monitored routes are stored under their configured ID.

<span class="header">Example Usage:</span>
  curl -X POST -d '{"origin":{"lat":12.9716,"lng":77.5946},"destination":{"lat":12.2958,"lng":76.6394}}' /api/v1/enrich
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
