package enrich

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/mock"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

type geocoderFunc func(ctx context.Context, p geo.Point) (GeocodeResult, error)

func (f geocoderFunc) ReverseGeocode(ctx context.Context, p geo.Point) (GeocodeResult, error) {
	return f(ctx, p)
}

type directionsFunc func(ctx context.Context, o, d geo.Point) (DirectionsResult, error)

func (f directionsFunc) Directions(ctx context.Context, o, d geo.Point) (DirectionsResult, error) {
	return f(ctx, o, d)
}

type trafficFunc func(ctx context.Context, p geo.Point, period string) (TrafficReading, error)

func (f trafficFunc) TrafficFor(ctx context.Context, p geo.Point, period string) (TrafficReading, error) {
	return f(ctx, p, period)
}

type flowFunc func(ctx context.Context, p geo.Point) (FlowReading, error)

func (f flowFunc) FlowSegment(ctx context.Context, p geo.Point) (FlowReading, error) {
	return f(ctx, p)
}

type incidentsFunc func(ctx context.Context, b orb.Bound) ([]Incident, error)

func (f incidentsFunc) Incidents(ctx context.Context, b orb.Bound) ([]Incident, error) {
	return f(ctx, b)
}

type weatherFunc func(ctx context.Context, p geo.Point, season string) (WeatherReading, error)

func (f weatherFunc) SeasonalWeather(ctx context.Context, p geo.Point, season string) (WeatherReading, error) {
	return f(ctx, p, season)
}

type placesFunc func(ctx context.Context, p geo.Point, placeType string) ([]Place, error)

func (f placesFunc) NearbyPlaces(ctx context.Context, p geo.Point, placeType string) ([]Place, error) {
	return f(ctx, p, placeType)
}

// MockElevation is a mock ElevationProvider
type MockElevation struct {
	mock.Mock
}

func (m *MockElevation) Elevations(ctx context.Context, points []geo.Point) ([]ElevationSample, error) {
	args := m.Called(ctx, points)
	samples, _ := args.Get(0).([]ElevationSample)
	return samples, args.Error(1)
}

// newTestEnricher disables pacing so tests run instantly.
func newTestEnricher(opts ...Option) *Enricher {
	return New(append([]Option{WithPacer(NewPacer(0, 1))}, opts...)...)
}

// lineRoute returns n points heading north from (12, 77).
func lineRoute(n int) geo.Route {
	route := make(geo.Route, n)
	for i := range route {
		route[i] = geo.Point{Latitude: 12 + float64(i)*0.001, Longitude: 77}
	}
	return route
}

// staircaseRoute returns 100 points spaced 0.001 degrees apart that alternate
// between heading east and north, turning five times.
func staircaseRoute() geo.Route {
	lengths := []int{17, 17, 17, 17, 17, 14}
	route := geo.Route{{Latitude: 0, Longitude: 0}}
	cur := route[0]
	for seg, n := range lengths {
		for i := 0; i < n; i++ {
			if seg%2 == 0 {
				cur.Longitude += 0.001
			} else {
				cur.Latitude += 0.001
			}
			route = append(route, cur)
		}
	}
	return route
}
