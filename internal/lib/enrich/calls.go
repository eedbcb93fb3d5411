package enrich

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Every provider call goes through these wrappers so it is paced against the
// shared budget and counted by outcome.

func (e *Enricher) reverseGeocode(ctx context.Context, p geo.Point) (GeocodeResult, error) {
	if e.geocoder == nil {
		return GeocodeResult{}, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return GeocodeResult{}, err
	}
	res, err := e.geocoder.ReverseGeocode(ctx, p)
	observeCall("geocoder", err)
	return res, err
}

func (e *Enricher) directionsFor(ctx context.Context, origin, destination geo.Point) (DirectionsResult, error) {
	if e.directions == nil {
		return DirectionsResult{}, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return DirectionsResult{}, err
	}
	res, err := e.directions.Directions(ctx, origin, destination)
	observeCall("directions", err)
	return res, err
}

func (e *Enricher) elevations(ctx context.Context, points []geo.Point) ([]ElevationSample, error) {
	if e.elevation == nil {
		return nil, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := e.elevation.Elevations(ctx, points)
	observeCall("elevation", err)
	return res, err
}

func (e *Enricher) trafficFor(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
	if e.traffic == nil {
		return TrafficReading{}, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return TrafficReading{}, err
	}
	res, err := e.traffic.TrafficFor(ctx, p, period)
	observeCall("traffic", err)
	return res, err
}

func (e *Enricher) flowSegment(ctx context.Context, p geo.Point) (FlowReading, error) {
	if e.flow == nil {
		return FlowReading{}, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return FlowReading{}, err
	}
	res, err := e.flow.FlowSegment(ctx, p)
	observeCall("flow", err)
	return res, err
}

func (e *Enricher) incidentsIn(ctx context.Context, bound orb.Bound) ([]Incident, error) {
	if e.incidents == nil {
		return nil, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := e.incidents.Incidents(ctx, bound)
	observeCall("incidents", err)
	return res, err
}

func (e *Enricher) seasonalWeather(ctx context.Context, p geo.Point, season string) (WeatherReading, error) {
	if e.weather == nil {
		return WeatherReading{}, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return WeatherReading{}, err
	}
	res, err := e.weather.SeasonalWeather(ctx, p, season)
	observeCall("weather", err)
	return res, err
}

func (e *Enricher) nearbyPlaces(ctx context.Context, p geo.Point, placeType string) ([]Place, error) {
	if e.places == nil {
		return nil, errNotConfigured
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	res, err := e.places.NearbyPlaces(ctx, p, placeType)
	observeCall("places", err)
	return res, err
}

// providerNote turns a pass-level failure into the summary's error field.
func providerNote(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
