package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Config represents the complete server configuration
type Config struct {
	Providers  ProvidersConfig  `yaml:"providers"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Cache      CacheConfig      `yaml:"cache"`
	Briefing   BriefingConfig   `yaml:"briefing"`
	Monitor    MonitorConfig    `yaml:"monitor"`
}

// ProvidersConfig holds API keys and endpoints of the external data sources.
// A provider without a key is left unconfigured and its passes degrade.
type ProvidersConfig struct {
	GoogleAPIKey      string        `yaml:"google_api_key"`
	TomTomAPIKey      string        `yaml:"tomtom_api_key"`
	HereAPIKey        string        `yaml:"here_api_key"`
	OpenWeatherAPIKey string        `yaml:"openweather_api_key"`
	OpenMeteoBaseURL  string        `yaml:"open_meteo_base_url"`
	IncidentFeeds     []string      `yaml:"incident_feeds"`
	Timeout           time.Duration `yaml:"timeout"`
}

// EnrichmentConfig tunes the pipeline.
type EnrichmentConfig struct {
	SampleTargets  enrich.SampleTargets `yaml:"sample_targets"`
	CallsPerSecond float64              `yaml:"calls_per_second"`
	Burst          int                  `yaml:"burst"`
	PassTimeout    time.Duration        `yaml:"pass_timeout"`
	MaxParallel    int                  `yaml:"max_parallel"`
	CorridorMeters float64              `yaml:"corridor_meters"`
	RiskMapSize    string               `yaml:"risk_map_size"`
	DisabledPasses []string             `yaml:"disabled_passes"`
}

// CacheConfig holds report cache settings. An empty ValkeyAddress keeps
// reports in memory.
type CacheConfig struct {
	ReportTTL       time.Duration `yaml:"report_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	ValkeyAddress   string        `yaml:"valkey_address"`
	KeyPrefix       string        `yaml:"key_prefix"`
}

// BriefingConfig holds settings of the optional LLM briefing.
type BriefingConfig struct {
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout"`
}

// MonitorConfig lists routes kept warm by periodic re-enrichment.
type MonitorConfig struct {
	RefreshInterval time.Duration    `yaml:"refresh_interval"`
	Routes          []MonitoredRoute `yaml:"routes"`
}

// MonitoredRoute represents a route to monitor
type MonitoredRoute struct {
	Name        string          `yaml:"name"`
	ID          string          `yaml:"id"`
	Origin      CoordinatesYAML `yaml:"origin"`
	Destination CoordinatesYAML `yaml:"destination"`
}

// CoordinatesYAML represents lat/lon coordinates in YAML config
type CoordinatesYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ToPoint converts CoordinatesYAML to a geo.Point
func (c CoordinatesYAML) ToPoint() geo.Point {
	return geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			OpenMeteoBaseURL: "https://archive-api.open-meteo.com",
			Timeout:          30 * time.Second,
		},
		Enrichment: EnrichmentConfig{
			SampleTargets:  enrich.DefaultSampleTargets(),
			CallsPerSecond: 5,
			Burst:          1,
			PassTimeout:    2 * time.Minute,
			MaxParallel:    4,
			CorridorMeters: 2000,
			RiskMapSize:    "640x640",
		},
		Cache: CacheConfig{
			ReportTTL:       6 * time.Hour,
			CleanupInterval: 10 * time.Minute,
			KeyPrefix:       "routeintel:report:",
		},
		Briefing: BriefingConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Monitor: MonitorConfig{
			RefreshInterval: 6 * time.Hour,
			Routes: []MonitoredRoute{
				{
					Name: "Bengaluru to Mysuru",
					ID:   "blr-mys",
					Origin: CoordinatesYAML{
						Latitude:  12.9716,
						Longitude: 77.5946,
					},
					Destination: CoordinatesYAML{
						Latitude:  12.2958,
						Longitude: 76.6394,
					},
				},
			},
		},
	}
}

// Validate reports settings that make the configuration unusable. Missing
// optional provider keys are not errors.
func (c *Config) Validate() error {
	var errs []error
	if c.Providers.GoogleAPIKey == "" {
		errs = append(errs, errors.New("providers.google_api_key is required"))
	}
	if c.Enrichment.CallsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("enrichment.calls_per_second must not be negative, got %v", c.Enrichment.CallsPerSecond))
	}
	if c.Enrichment.MaxParallel < 0 {
		errs = append(errs, fmt.Errorf("enrichment.max_parallel must not be negative, got %d", c.Enrichment.MaxParallel))
	}
	if c.Cache.ReportTTL <= 0 {
		errs = append(errs, errors.New("cache.report_ttl must be positive"))
	}
	if c.Cache.CleanupInterval <= 0 {
		errs = append(errs, errors.New("cache.cleanup_interval must be positive"))
	}
	seen := make(map[string]bool, len(c.Monitor.Routes))
	for i, r := range c.Monitor.Routes {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("monitor.routes[%d].id is required", i))
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("monitor.routes[%d].id %q is duplicated", i, r.ID))
		}
		seen[r.ID] = true
		if _, err := geo.NewPoint(r.Origin.Latitude, r.Origin.Longitude); err != nil {
			errs = append(errs, fmt.Errorf("monitor.routes[%d].origin: %w", i, err))
		}
		if _, err := geo.NewPoint(r.Destination.Latitude, r.Destination.Longitude); err != nil {
			errs = append(errs, fmt.Errorf("monitor.routes[%d].destination: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
