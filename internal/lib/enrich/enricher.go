package enrich

import (
	"context"
	"time"

	"github.com/dpup/prefab/logging"
)

// SampleTargets sets how many points each pass samples from a route.
type SampleTargets struct {
	Terrain         int `yaml:"terrain"`
	Elevation       int `yaml:"elevation"`
	Congestion      int `yaml:"congestion"`
	SeasonalTraffic int `yaml:"seasonal_traffic"`
	Weather         int `yaml:"weather"`
	Turns           int `yaml:"turns"`
	POI             int `yaml:"poi"`
}

// DefaultSampleTargets returns the per-pass targets used in production.
func DefaultSampleTargets() SampleTargets {
	return SampleTargets{
		Terrain:         20,
		Elevation:       100,
		Congestion:      10,
		SeasonalTraffic: 10,
		Weather:         8,
		Turns:           100,
		POI:             5,
	}
}

// Enricher runs enrichment passes against a set of providers. Providers
// left unset make their passes return an empty summary carrying an error
// note. An Enricher is safe for concurrent use.
type Enricher struct {
	geocoder   Geocoder
	directions DirectionsProvider
	elevation  ElevationProvider
	traffic    TrafficEstimator
	flow       FlowProvider
	incidents  IncidentProvider
	weather    WeatherProvider
	places     PlaceFinder

	pacer          *Pacer
	targets        SampleTargets
	corridorMeters float64
	now            func() time.Time
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithGeocoder sets the reverse geocoder used for endpoints, terrain and
// location descriptions.
func WithGeocoder(g Geocoder) Option {
	return func(e *Enricher) { e.geocoder = g }
}

// WithDirections sets the directions provider used for highway detection.
func WithDirections(d DirectionsProvider) Option {
	return func(e *Enricher) { e.directions = d }
}

// WithElevation sets the elevation provider.
func WithElevation(p ElevationProvider) Option {
	return func(e *Enricher) { e.elevation = p }
}

// WithTrafficEstimator sets the estimator for time-of-day congestion.
func WithTrafficEstimator(t TrafficEstimator) Option {
	return func(e *Enricher) { e.traffic = t }
}

// WithFlow sets the traffic flow provider for seasonal congestion.
func WithFlow(f FlowProvider) Option {
	return func(e *Enricher) { e.flow = f }
}

// WithIncidents sets the incident provider for construction zones.
func WithIncidents(p IncidentProvider) Option {
	return func(e *Enricher) { e.incidents = p }
}

// WithWeather sets the seasonal weather provider.
func WithWeather(w WeatherProvider) Option {
	return func(e *Enricher) { e.weather = w }
}

// WithPlaces sets the nearby-place search used for POI discovery.
func WithPlaces(p PlaceFinder) Option {
	return func(e *Enricher) { e.places = p }
}

// WithPacer replaces the default pacer.
func WithPacer(p *Pacer) Option {
	return func(e *Enricher) { e.pacer = p }
}

// WithSampleTargets overrides the per-pass sample targets. Zero fields keep
// their defaults.
func WithSampleTargets(t SampleTargets) Option {
	return func(e *Enricher) {
		d := &e.targets
		setIfPositive(&d.Terrain, t.Terrain)
		setIfPositive(&d.Elevation, t.Elevation)
		setIfPositive(&d.Congestion, t.Congestion)
		setIfPositive(&d.SeasonalTraffic, t.SeasonalTraffic)
		setIfPositive(&d.Weather, t.Weather)
		setIfPositive(&d.Turns, t.Turns)
		setIfPositive(&d.POI, t.POI)
	}
}

// WithCorridor drops construction incidents farther than meters from the
// route. Zero keeps every incident in the bounding box.
func WithCorridor(meters float64) Option {
	return func(e *Enricher) { e.corridorMeters = meters }
}

// WithClock sets the evaluation time source for construction status and
// current-season advisories.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) { e.now = now }
}

// New creates an Enricher. Calls are paced at 5 per second unless a pacer is
// supplied.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		pacer:   NewPacer(5, 1),
		targets: DefaultSampleTargets(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the evaluation time.
func (e *Enricher) Now() time.Time {
	return e.now()
}

// Targets returns the effective sample targets.
func (e *Enricher) Targets() SampleTargets {
	return e.targets
}

// skip logs a dropped sample and counts it.
func skip(ctx context.Context, pass string, index int, err error) {
	skippedSamples.WithLabelValues(pass).Inc()
	logging.Warnw(ctx, "Skipping sample after provider failure",
		"pass", pass, "sample", index, "reason", failureKind(err), "error", err)
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}
