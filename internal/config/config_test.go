package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 20, cfg.Enrichment.SampleTargets.Terrain)
	assert.Equal(t, 5.0, cfg.Enrichment.CallsPerSecond)
	assert.Equal(t, "640x640", cfg.Enrichment.RiskMapSize)
	assert.Equal(t, 6*time.Hour, cfg.Cache.ReportTTL)
	assert.Empty(t, cfg.Cache.ValkeyAddress)
	require.Len(t, cfg.Monitor.Routes, 1)
	assert.Equal(t, 12.9716, cfg.Monitor.Routes[0].Origin.ToPoint().Latitude)

	err := cfg.Validate()
	require.Error(t, err, "google key is required")
	assert.Contains(t, err.Error(), "providers.google_api_key")

	cfg.Providers.GoogleAPIKey = "test-key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.GoogleAPIKey = "test-key"
	cfg.Enrichment.CallsPerSecond = -1
	cfg.Cache.ReportTTL = 0
	cfg.Cache.CleanupInterval = 0
	cfg.Monitor.Routes = append(cfg.Monitor.Routes,
		MonitoredRoute{ID: "blr-mys"},
		MonitoredRoute{Name: "nameless"},
		MonitoredRoute{ID: "bad", Origin: CoordinatesYAML{Latitude: 95}},
	)

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "calls_per_second")
	assert.Contains(t, msg, "report_ttl")
	assert.Contains(t, msg, "cleanup_interval")
	assert.Contains(t, msg, `"blr-mys" is duplicated`)
	assert.Contains(t, msg, "monitor.routes[2].id is required")
	assert.Contains(t, msg, "monitor.routes[3].origin")
}
