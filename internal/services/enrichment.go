package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dpup/routeintel/server/internal/cache"
	"github.com/dpup/routeintel/server/internal/config"
	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
	"github.com/dpup/routeintel/server/internal/lib/pipeline"
)

var (
	// ErrReportNotFound is returned for unknown or expired report IDs.
	ErrReportNotFound = errors.New("report not found")

	// ErrNoDirections rejects origin/destination requests when no
	// directions provider is configured.
	ErrNoDirections = errors.New("directions provider not configured")
)

// EnrichRequest describes a route to enrich. Exactly one of Route, Polyline
// or Origin/Destination is used, in that order of preference.
type EnrichRequest struct {
	Route        geo.Route          `json:"route,omitempty"`
	Polyline     string             `json:"polyline,omitempty"`
	Origin       *geo.Point         `json:"origin,omitempty"`
	Destination  *geo.Point         `json:"destination,omitempty"`
	SupplyName   string             `json:"supply_name,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	POIs         enrich.POIAnalysis `json:"pois,omitempty"`
}

// EnrichmentService runs the pipeline for requests and keeps the resulting
// bundles in a report store.
type EnrichmentService struct {
	pipeline   *pipeline.Pipeline
	directions enrich.DirectionsProvider
	reports    cache.ReportStore
	geo        geo.GeoUtils
}

// NewEnrichmentService creates a new EnrichmentService. directions may be nil,
// in which case origin/destination requests are rejected.
func NewEnrichmentService(p *pipeline.Pipeline, directions enrich.DirectionsProvider, reports cache.ReportStore) *EnrichmentService {
	return &EnrichmentService{
		pipeline:   p,
		directions: directions,
		reports:    reports,
		geo:        geo.NewGeoUtils(),
	}
}

// Enrich resolves the request to a route, runs the pipeline and stores the
// bundle under its ID.
func (s *EnrichmentService) Enrich(ctx context.Context, req EnrichRequest) (*pipeline.Bundle, error) {
	in, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Printf("Enriching route with %d points", len(in.Route))
	b, err := s.pipeline.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.reports.Put(ctx, b.ID, b); err != nil {
		// The caller still gets the bundle; only later lookups miss.
		log.Printf("Failed to store report %s: %v", b.ID, err)
	}
	log.Printf("Enrichment %s completed in %v", b.ID, b.Duration)
	return b, nil
}

// Report loads a stored bundle.
func (s *EnrichmentService) Report(ctx context.Context, id string) (*pipeline.Bundle, error) {
	var b pipeline.Bundle
	found, err := s.reports.Get(ctx, id, &b)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	return &b, nil
}

// DeleteReport removes a stored bundle. Unknown IDs succeed.
func (s *EnrichmentService) DeleteReport(ctx context.Context, id string) error {
	return s.reports.Delete(ctx, id)
}

// RefreshRoute re-enriches a monitored route and stores the bundle under the
// route's ID as well as its own.
func (s *EnrichmentService) RefreshRoute(ctx context.Context, route config.MonitoredRoute) error {
	origin, destination := route.Origin.ToPoint(), route.Destination.ToPoint()
	b, err := s.Enrich(ctx, EnrichRequest{
		Origin:      &origin,
		Destination: &destination,
	})
	if err != nil {
		return fmt.Errorf("failed to refresh route %s: %w", route.ID, err)
	}
	if err := s.reports.Put(ctx, route.ID, b); err != nil {
		return fmt.Errorf("failed to store route %s: %w", route.ID, err)
	}
	return nil
}

func (s *EnrichmentService) resolve(ctx context.Context, req EnrichRequest) (pipeline.Input, error) {
	in := pipeline.Input{
		Route:        req.Route,
		SupplyName:   req.SupplyName,
		CustomerName: req.CustomerName,
		POIs:         req.POIs,
	}

	switch {
	case len(req.Route) > 0:
	case req.Polyline != "":
		route, err := s.geo.DecodePolyline(req.Polyline)
		if err != nil {
			return in, fmt.Errorf("%w: %v", enrich.ErrMalformedInput, err)
		}
		in.Route = route
	case req.Origin != nil && req.Destination != nil:
		if s.directions == nil {
			return in, ErrNoDirections
		}
		dir, err := s.directions.Directions(ctx, *req.Origin, *req.Destination)
		if err != nil {
			return in, err
		}
		route, err := s.geo.DecodePolyline(dir.OverviewPolyline)
		if err != nil {
			return in, fmt.Errorf("%w: %v", enrich.ErrMalformedInput, err)
		}
		in.Route = route
		if len(dir.Legs) > 0 {
			in.DistanceText = dir.Legs[0].DistanceText
		}
	default:
		return in, enrich.ErrEmptyRoute
	}

	for i, p := range in.Route {
		if _, err := geo.NewPoint(p.Latitude, p.Longitude); err != nil {
			return in, fmt.Errorf("%w: point %d: %v", enrich.ErrMalformedInput, i, err)
		}
	}
	return in, nil
}
