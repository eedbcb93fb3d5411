package services

import (
	"fmt"
	"log"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/dpup/routeintel/server/internal/cache"
	"github.com/dpup/routeintel/server/internal/clients/google"
	"github.com/dpup/routeintel/server/internal/clients/kmlfeed"
	"github.com/dpup/routeintel/server/internal/clients/traffic"
	"github.com/dpup/routeintel/server/internal/clients/weather"
	"github.com/dpup/routeintel/server/internal/config"
	"github.com/dpup/routeintel/server/internal/lib/briefing"
	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/mapviz"
	"github.com/dpup/routeintel/server/internal/lib/pipeline"
)

// Components are the pieces built from configuration.
type Components struct {
	Pipeline   *pipeline.Pipeline
	Directions enrich.DirectionsProvider
	Narrator   briefing.Narrator
}

// BuildPipeline creates provider clients from cfg and wires them into a
// pipeline. Providers without keys stay unconfigured. c backs the briefing
// cache and may be nil to disable it.
func BuildPipeline(cfg *config.Config, c *cache.Cache) (*Components, error) {
	httpClient := &http.Client{Timeout: cfg.Providers.Timeout}

	googleClient, err := google.NewClientWithHTTPClient(cfg.Providers.GoogleAPIKey, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	opts := []enrich.Option{
		enrich.WithGeocoder(googleClient),
		enrich.WithDirections(googleClient),
		enrich.WithElevation(googleClient),
		enrich.WithPlaces(googleClient),
		enrich.WithTrafficEstimator(enrich.NewLocalityTrafficEstimator(googleClient)),
		enrich.WithPacer(enrich.NewPacer(cfg.Enrichment.CallsPerSecond, cfg.Enrichment.Burst)),
		enrich.WithSampleTargets(cfg.Enrichment.SampleTargets),
		enrich.WithCorridor(cfg.Enrichment.CorridorMeters),
	}

	if key := cfg.Providers.TomTomAPIKey; key != "" {
		opts = append(opts, enrich.WithFlow(traffic.NewTomTomClientWithHTTPDoer(key, traffic.TomTomBaseURL, httpClient)))
		log.Printf("TomTom traffic flow enabled")
	}

	var incidents []enrich.IncidentProvider
	if key := cfg.Providers.HereAPIKey; key != "" {
		incidents = append(incidents, traffic.NewHereClientWithHTTPDoer(key, traffic.HereBaseURL, httpClient))
		log.Printf("HERE incidents enabled")
	}
	if feeds := cfg.Providers.IncidentFeeds; len(feeds) > 0 {
		incidents = append(incidents, kmlfeed.NewFeedClientWithHTTPDoer(httpClient, feeds...))
		log.Printf("KML incident feeds enabled: %d", len(feeds))
	}
	if p := enrich.CombineIncidents(incidents...); p != nil {
		opts = append(opts, enrich.WithIncidents(p))
	}

	var current *weather.Client
	if key := cfg.Providers.OpenWeatherAPIKey; key != "" {
		current = weather.NewClientWithHTTPDoer(key, weather.OpenWeatherBaseURL, httpClient)
		log.Printf("OpenWeather current visibility enabled")
	}
	archive := weather.NewArchiveClientWithHTTPDoer(cfg.Providers.OpenMeteoBaseURL, httpClient)
	opts = append(opts, enrich.WithWeather(weather.NewSeasonalProvider(archive, current)))

	narrator := buildNarrator(cfg.Briefing, c)
	popts := pipeline.Options{
		PassTimeout: cfg.Enrichment.PassTimeout,
		MaxParallel: cfg.Enrichment.MaxParallel,
		RiskMapSize: cfg.Enrichment.RiskMapSize,
		Disabled:    cfg.Enrichment.DisabledPasses,
		Narrator:    narrator,
	}

	p := pipeline.New(enrich.New(opts...), mapviz.NewComposer(cfg.Providers.GoogleAPIKey), popts)
	return &Components{Pipeline: p, Directions: googleClient, Narrator: narrator}, nil
}

func buildNarrator(cfg config.BriefingConfig, c *cache.Cache) briefing.Narrator {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	oc := openai.DefaultConfig(cfg.OpenAIAPIKey)
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	narrator := briefing.NewNarratorWithConfig(oc, cfg.Model)
	log.Printf("Route briefings enabled (model: %s)", cfg.Model)
	if c == nil {
		return narrator
	}
	return briefing.NewCachedNarrator(narrator, cache.NewBriefingCacheAdapter(c), briefing.DefaultTTL)
}

// BuildReportStore returns a Valkey-backed store when an address is
// configured and an in-memory one otherwise.
func BuildReportStore(cfg config.CacheConfig, c *cache.Cache) (cache.ReportStore, error) {
	if cfg.ValkeyAddress == "" {
		return cache.NewMemoryReportStore(c, cfg.ReportTTL), nil
	}
	store, err := cache.NewValkeyReportStore(cfg.ValkeyAddress, cfg.KeyPrefix, cfg.ReportTTL)
	if err != nil {
		return nil, err
	}
	log.Printf("Reports stored in Valkey at %s", cfg.ValkeyAddress)
	return store, nil
}
