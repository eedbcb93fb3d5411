package enrich

import (
	"context"

	"github.com/paulmach/orb"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// AddressComponent is one part of a geocoded address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// GeocodeResult is the best reverse-geocoding match for a point.
type GeocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	Types             []string           `json:"types"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Geocoder resolves a point to an address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, point geo.Point) (GeocodeResult, error)
}

// DirectionsStep is a single maneuver of a driving leg.
type DirectionsStep struct {
	Instruction     string    `json:"instruction"`
	Maneuver        string    `json:"maneuver"`
	DistanceMeters  int       `json:"distance_m"`
	DurationSeconds float64   `json:"duration_s"`
	Start           geo.Point `json:"start"`
}

// DirectionsLeg is the part of a route between two waypoints.
type DirectionsLeg struct {
	StartAddress   string           `json:"start_address"`
	EndAddress     string           `json:"end_address"`
	DistanceText   string           `json:"distance_text"`
	DistanceMeters int              `json:"distance_m"`
	Steps          []DirectionsStep `json:"steps"`
}

// DirectionsResult is the first route returned by a directions provider.
type DirectionsResult struct {
	Legs             []DirectionsLeg `json:"legs"`
	OverviewPolyline string          `json:"overview_polyline"`
}

// TotalMeters sums leg distances.
func (d DirectionsResult) TotalMeters() int {
	var total int
	for _, leg := range d.Legs {
		total += leg.DistanceMeters
	}
	return total
}

// DirectionsProvider computes driving directions between two points.
type DirectionsProvider interface {
	Directions(ctx context.Context, origin, destination geo.Point) (DirectionsResult, error)
}

// ElevationSample is the elevation of one location.
type ElevationSample struct {
	Location   geo.Point `json:"location"`
	ElevationM float64   `json:"elevation_m"`
}

// ElevationProvider returns elevations aligned with the input order. A result
// shorter than the input signals partial failure.
type ElevationProvider interface {
	Elevations(ctx context.Context, points []geo.Point) ([]ElevationSample, error)
}

// TrafficReading is an estimate of traffic at a point for a time period.
type TrafficReading struct {
	Level            string `json:"traffic_level"`
	DelayMinutes     int    `json:"delay_minutes"`
	RecommendedSpeed string `json:"recommended_speed"`
}

// TrafficEstimator estimates traffic for a named time period.
type TrafficEstimator interface {
	TrafficFor(ctx context.Context, point geo.Point, period string) (TrafficReading, error)
}

// FlowReading holds segment speeds in km/h.
type FlowReading struct {
	CurrentSpeed  float64 `json:"current_speed"`
	FreeFlowSpeed float64 `json:"free_flow_speed"`
}

// FlowProvider reports traffic flow for the road segment nearest a point.
type FlowProvider interface {
	FlowSegment(ctx context.Context, point geo.Point) (FlowReading, error)
}

// Incident is a traffic incident reported inside a bounding box.
type Incident struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Criticality string    `json:"criticality"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	RoadName    string    `json:"road_name"`
	Direction   string    `json:"direction"`
	Location    geo.Point `json:"location"`
}

// IncidentProvider lists incidents inside a bounding box.
type IncidentProvider interface {
	Incidents(ctx context.Context, bound orb.Bound) ([]Incident, error)
}

// WeatherReading is a seasonal weather summary for a point.
type WeatherReading struct {
	Location        geo.Point `json:"location"`
	TemperatureC    float64   `json:"temperature"`
	Humidity        float64   `json:"humidity"`
	PrecipitationMM float64   `json:"precipitation"`
	ElevationM      float64   `json:"elevation"`
	VisibilityM     float64   `json:"visibility"`
}

// WeatherProvider returns the typical weather of a season at a point.
type WeatherProvider interface {
	SeasonalWeather(ctx context.Context, point geo.Point, season string) (WeatherReading, error)
}

// Place is a point of interest returned by a nearby search.
type Place struct {
	Name     string     `json:"name"`
	Vicinity string     `json:"vicinity"`
	Location *geo.Point `json:"location,omitempty"`
}

// PlaceFinder searches for places of a type near a point.
type PlaceFinder interface {
	NearbyPlaces(ctx context.Context, point geo.Point, placeType string) ([]Place, error)
}
