// Package pipeline runs every enrichment pass over a route and assembles the
// results, maps and printable tables into one bundle.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dpup/routeintel/server/internal/lib/briefing"
	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
	"github.com/dpup/routeintel/server/internal/lib/mapviz"
	"github.com/dpup/routeintel/server/internal/lib/tables"
)

// Input is a route to enrich.
type Input struct {
	Route        geo.Route          `json:"route"`
	SupplyName   string             `json:"supply_name,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	DistanceText string             `json:"distance,omitempty"`
	POIs         enrich.POIAnalysis `json:"pois,omitempty"`
}

// Bundle is the full enrichment of one route.
type Bundle struct {
	ID          string        `json:"id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Duration    time.Duration `json:"duration_ns"`
	PointCount  int           `json:"point_count"`
	Route       geo.Route     `json:"route"`
	Polyline    string        `json:"polyline"`

	Endpoints          enrich.EndpointDetails         `json:"endpoints"`
	Terrain            enrich.TerrainAnalysis         `json:"terrain"`
	Highways           enrich.HighwayAnalysis         `json:"highways"`
	Elevation          enrich.ElevationAnalysis       `json:"elevation"`
	Congestion         enrich.CongestionAnalysis      `json:"time_congestion"`
	SeasonalTraffic    enrich.SeasonalTrafficAnalysis `json:"seasonal_traffic"`
	Construction       enrich.ConstructionAnalysis    `json:"construction"`
	SeasonalConditions enrich.SeasonalConditions      `json:"seasonal_conditions"`
	Summer             enrich.SummerRisks             `json:"summer_risks"`
	Monsoon            enrich.MonsoonRisks            `json:"monsoon_risks"`
	Winter             enrich.WinterRisks             `json:"winter_risks"`
	Advisories         enrich.SeasonAdvisories        `json:"season_advisories"`
	Turns              enrich.TurnAnalysis            `json:"turns"`
	POIs               enrich.POIAnalysis             `json:"pois"`

	RiskMapURL   string             `json:"risk_map_url,omitempty"`
	LayersMapURL string             `json:"layers_map_url,omitempty"`
	Tables       tables.Tables      `json:"tables"`
	Briefing     *briefing.Briefing `json:"briefing,omitempty"`
}

// Pass names accepted by Options.Disabled.
const (
	PassEndpoints          = "endpoints"
	PassTerrain            = "terrain"
	PassHighways           = "highways"
	PassElevation          = "elevation"
	PassCongestion         = "congestion"
	PassSeasonalTraffic    = "seasonal_traffic"
	PassConstruction       = "construction"
	PassSeasonalConditions = "seasonal_conditions"
	PassSummer             = "summer"
	PassMonsoon            = "monsoon"
	PassWinter             = "winter"
	PassPOIs               = "pois"
	PassTables             = "tables"
	PassBriefing           = "briefing"
)

// Options tunes a pipeline.
type Options struct {
	// PassTimeout bounds each pass. Zero means no timeout beyond the caller's.
	PassTimeout time.Duration

	// MaxParallel limits concurrently running passes. Zero means unlimited.
	MaxParallel int

	// RiskMapSize is the static map size of the risk map, e.g. "640x640".
	RiskMapSize string

	// Disabled lists passes to skip; their summaries stay empty.
	Disabled []string

	// Narrator writes the optional driver briefing. Nil skips it.
	Narrator briefing.Narrator
}

// Pipeline runs enrichment passes concurrently.
type Pipeline struct {
	enricher *enrich.Enricher
	maps     *mapviz.Composer
	opts     Options
	disabled map[string]bool
}

// New creates a pipeline. maps may be nil to skip map URLs.
func New(enricher *enrich.Enricher, maps *mapviz.Composer, opts Options) *Pipeline {
	disabled := make(map[string]bool, len(opts.Disabled))
	for _, name := range opts.Disabled {
		disabled[name] = true
	}
	return &Pipeline{
		enricher: enricher,
		maps:     maps,
		opts:     opts,
		disabled: disabled,
	}
}

// Run enriches a route. Provider failures never fail the run; they leave
// defaults in the affected summaries. The only error is an empty route.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Bundle, error) {
	if len(in.Route) == 0 {
		return nil, enrich.ErrEmptyRoute
	}

	start := time.Now()
	b := &Bundle{
		ID:          uuid.NewString(),
		GeneratedAt: p.enricher.Now().UTC(),
		PointCount:  len(in.Route),
		Route:       in.Route,
		Polyline:    geo.NewGeoUtils().EncodePolyline(in.Route),
	}
	route := in.Route
	e := p.enricher

	// Each pass writes only its own field of b.
	g, gctx := errgroup.WithContext(ctx)
	if p.opts.MaxParallel > 0 {
		g.SetLimit(p.opts.MaxParallel)
	}

	p.spawn(gctx, g, PassEndpoints, func(ctx context.Context) {
		b.Endpoints = e.DescribeEndpoints(ctx, route, in.SupplyName, in.CustomerName)
	})
	p.spawn(gctx, g, PassTerrain, func(ctx context.Context) {
		b.Terrain = e.ClassifyTerrain(ctx, route)
	})
	p.spawn(gctx, g, PassHighways, func(ctx context.Context) {
		b.Highways = e.IdentifyHighways(ctx, route, in.DistanceText)
	})
	p.spawn(gctx, g, PassElevation, func(ctx context.Context) {
		b.Elevation = e.AnalyzeElevation(ctx, route)
	})
	p.spawn(gctx, g, PassCongestion, func(ctx context.Context) {
		b.Congestion = e.AnalyzeCongestion(ctx, route)
	})
	p.spawn(gctx, g, PassSeasonalTraffic, func(ctx context.Context) {
		b.SeasonalTraffic = e.AnalyzeSeasonalTraffic(ctx, route)
	})
	p.spawn(gctx, g, PassConstruction, func(ctx context.Context) {
		b.Construction = e.AnalyzeConstruction(ctx, route)
	})
	p.spawn(gctx, g, PassSeasonalConditions, func(ctx context.Context) {
		b.SeasonalConditions = e.AnalyzeSeasonalConditions(ctx, route)
	})
	p.spawn(gctx, g, PassSummer, func(ctx context.Context) {
		b.Summer = e.AnalyzeSummerRisks(ctx, route)
	})
	p.spawn(gctx, g, PassMonsoon, func(ctx context.Context) {
		b.Monsoon = e.AnalyzeMonsoonRisks(ctx, route)
	})
	p.spawn(gctx, g, PassWinter, func(ctx context.Context) {
		b.Winter = e.AnalyzeWinterRisks(ctx, route)
	})
	if len(in.POIs) > 0 {
		b.POIs = in.POIs
	} else {
		p.spawn(gctx, g, PassPOIs, func(ctx context.Context) {
			b.POIs = e.DiscoverPOIs(ctx, route)
		})
	}

	b.Turns = enrich.DetectSharpTurns(route, e.Targets().Turns)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	fillEmpty(b)

	b.Advisories = enrich.BuildAdvisories(b.GeneratedAt, b.Summer, b.Monsoon, b.Winter)

	if p.maps != nil {
		if req, ok := p.maps.RiskMap(route, b.Turns.Turns, p.opts.RiskMapSize); ok {
			b.RiskMapURL = req.URL()
		}
		if req, ok := p.maps.LayersMap(route, b.Turns.Turns, b.POIs["hospitals"], b.Elevation.Profile); ok {
			b.LayersMapURL = req.URL()
		}
	}

	var describer tables.Describer
	if !p.disabled[PassTables] {
		describer = e
	}
	tctx, cancel := p.passContext(ctx)
	b.Tables = tables.Build(tctx, tables.Input{
		Route:      route,
		Turns:      b.Turns.Turns,
		POIs:       b.POIs,
		RiskPoints: b.Elevation.RiskPoints,
		Summer:     b.Summer,
		Monsoon:    b.Monsoon,
		Winter:     b.Winter,
	}, describer)
	cancel()

	if p.opts.Narrator != nil && !p.disabled[PassBriefing] {
		nctx, cancel := p.passContext(ctx)
		brief, err := p.opts.Narrator.Narrate(nctx, b.BriefingInput(in))
		cancel()
		if err != nil {
			logging.Warnw(ctx, "Briefing skipped", "id", b.ID, "error", err)
		} else {
			b.Briefing = &brief
		}
	}

	b.Duration = time.Since(start)
	logging.Infow(ctx, "Route enriched",
		"id", b.ID, "points", b.PointCount, "turns", len(b.Turns.Turns), "duration", b.Duration)
	return b, nil
}

// spawn runs a pass on the group under its own timeout. A panicking pass is
// logged and leaves its summary empty.
func (p *Pipeline) spawn(ctx context.Context, g *errgroup.Group, name string, pass func(context.Context)) {
	if p.disabled[name] {
		return
	}
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				stack, _ := errors.ParseStack(debug.Stack())
				logging.Errorw(ctx, "Enrichment pass: recovered from panic",
					"pass", name, "error", fmt.Sprint(r), "error.stack_trace", stack.MinimalStack(3, 5))
			}
		}()

		pctx, cancel := p.passContext(ctx)
		defer cancel()
		pass(pctx)
		return nil
	})
}

// fillEmpty replaces the nil slices and maps left by disabled or panicking
// passes so every bundle serializes with the same shape.
func fillEmpty(b *Bundle) {
	emptySlice(&b.Terrain.Segments)
	emptySlice(&b.Terrain.Recommendations)
	if b.Terrain.Distribution == nil {
		b.Terrain.Distribution = enrich.Distribution{}
	}
	emptySlice(&b.Highways.MajorHighways)
	emptySlice(&b.Highways.HighwaySegments)
	emptySlice(&b.Elevation.Profile)
	emptySlice(&b.Elevation.AscentSegments)
	emptySlice(&b.Elevation.DescentSegments)
	emptySlice(&b.Elevation.RiskPoints)
	emptySlice(&b.Elevation.Recommendations)
	emptySlice(&b.Congestion.Periods)
	emptySlice(&b.Congestion.Hotspots)
	emptySlice(&b.Congestion.Recommendations)
	emptySlice(&b.SeasonalTraffic.Patterns)
	emptySlice(&b.SeasonalTraffic.PeakCongestionMonths)
	emptySlice(&b.SeasonalTraffic.Recommendations)
	emptySlice(&b.Construction.ActiveZones)
	emptySlice(&b.Construction.PlannedZones)
	emptySlice(&b.Construction.Recommendations)
	emptySlice(&b.SeasonalConditions.Seasons)
	emptySlice(&b.SeasonalConditions.RiskCalendar)
	emptySlice(&b.SeasonalConditions.Recommendations)
	emptySlice(&b.Summer.TemperatureHotspots)
	emptySlice(&b.Summer.OverheatingZones)
	emptySlice(&b.Summer.Recommendations)
	emptySlice(&b.Monsoon.FloodProneAreas)
	emptySlice(&b.Monsoon.LandslideZones)
	emptySlice(&b.Monsoon.Recommendations)
	emptySlice(&b.Winter.FogZones)
	emptySlice(&b.Winter.VisibilityRisks)
	emptySlice(&b.Winter.Recommendations)
	if b.POIs == nil {
		b.POIs = enrich.POIAnalysis{}
	}
}

func emptySlice[T any](s *[]T) {
	if *s == nil {
		*s = []T{}
	}
}

func (p *Pipeline) passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.PassTimeout > 0 {
		return context.WithTimeout(ctx, p.opts.PassTimeout)
	}
	return context.WithCancel(ctx)
}
