package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoUtils_PointToPoint(t *testing.T) {
	// Angels Camp to Murphys
	angelscamp := Point{Latitude: 38.0675, Longitude: -120.5436}
	murphys := Point{Latitude: 38.1391, Longitude: -120.4561}

	geoUtils := NewGeoUtils()

	distance, err := geoUtils.PointToPoint(angelscamp, murphys)
	require.NoError(t, err)
	assert.InDelta(t, 11046, distance, 100, "Distance should be approximately 11.0km")

	invalidPoint := Point{Latitude: 200, Longitude: -300}
	_, err = geoUtils.PointToPoint(angelscamp, invalidPoint)
	assert.Error(t, err, "Should return error for invalid coordinates")

	distance, err = geoUtils.PointToPoint(murphys, murphys)
	require.NoError(t, err)
	assert.Equal(t, 0.0, distance)
}

func TestGeoUtils_PointToRoute(t *testing.T) {
	geoUtils := NewGeoUtils()

	route := Route{
		{Latitude: 12.9716, Longitude: 77.5946},
		{Latitude: 12.9716, Longitude: 77.6046},
		{Latitude: 12.9816, Longitude: 77.6046},
	}

	onRoute := Point{Latitude: 12.9716, Longitude: 77.5996}
	distance, err := geoUtils.PointToRoute(onRoute, route)
	require.NoError(t, err)
	assert.Less(t, distance, 50.0, "Point on route should be within 50m")

	offRoute := Point{Latitude: 12.9616, Longitude: 77.5996}
	distance, err = geoUtils.PointToRoute(offRoute, route)
	require.NoError(t, err)
	assert.InDelta(t, 1112, distance, 30, "Point 0.01 degrees south should be ~1.1km away")

	_, err = geoUtils.PointToRoute(onRoute, Route{})
	assert.Error(t, err, "Should return error for empty route")
}

func TestGeoUtils_PolylineRoundTrip(t *testing.T) {
	geoUtils := NewGeoUtils()

	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	route, err := geoUtils.DecodePolyline(encoded)
	require.NoError(t, err)
	require.Len(t, route, 3)

	assert.InDelta(t, 38.5, route[0].Latitude, 1e-5)
	assert.InDelta(t, -120.2, route[0].Longitude, 1e-5)
	assert.InDelta(t, 43.252, route[2].Latitude, 1e-5)
	assert.InDelta(t, -126.453, route[2].Longitude, 1e-5)

	assert.Equal(t, encoded, geoUtils.EncodePolyline(route))

	_, err = geoUtils.DecodePolyline("")
	assert.Error(t, err, "Should return error for empty polyline")

	_, err = geoUtils.DecodePolyline("invalid_polyline_data")
	assert.Error(t, err, "Should return error for invalid polyline")
}

func TestSample(t *testing.T) {
	route := make(Route, 100)
	for i := range route {
		route[i] = Point{Latitude: float64(i) * 0.001, Longitude: 77}
	}

	t.Run("always includes first point and preserves order", func(t *testing.T) {
		for _, target := range []int{1, 2, 3, 7, 20, 33, 50, 99} {
			sampled := Sample(route, target)
			require.NotEmpty(t, sampled)
			assert.Equal(t, route[0], sampled[0], "target %d", target)
			for i := 1; i < len(sampled); i++ {
				assert.Greater(t, sampled[i].Latitude, sampled[i-1].Latitude, "target %d", target)
			}
		}
	})

	t.Run("stride is floor of length over target", func(t *testing.T) {
		assert.Len(t, Sample(route, 50), 50)
		assert.Len(t, Sample(route, 30), 34)
		assert.Equal(t, 3, Stride(100, 30))
	})

	t.Run("target at or above length returns full route", func(t *testing.T) {
		assert.Equal(t, route, Sample(route, 100))
		assert.Equal(t, route, Sample(route, 500))
	})

	t.Run("non-positive target is treated as one", func(t *testing.T) {
		assert.Equal(t, Route{route[0]}, Sample(route, 0))
		assert.Equal(t, Route{route[0]}, Sample(route, -5))
	})

	t.Run("short routes", func(t *testing.T) {
		assert.Empty(t, Sample(Route{}, 10))
		assert.Equal(t, Route{route[0]}, Sample(Route{route[0]}, 10))
	})
}

func TestToDMS(t *testing.T) {
	assert.Equal(t, `12°30'0.0"N, 77°30'0.0"E`, ToDMS(12.5, 77.5))
	assert.Equal(t, `33°52'7.7"S, 151°12'33.5"W`, ToDMS(-33.8688, -151.2093))
	assert.Equal(t, `13°0'0.0"N, 77°59'0.0"E`, ToDMS(12.9999999, 77.98333333))
	assert.Equal(t, `12°1'0.0"N, 0°0'0.0"E`, ToDMS(12.01666666, 0.00000001))

	for _, tc := range []struct{ lat, lng float64 }{
		{12.5, 77.5},
		{-33.8688, 151.2093},
		{51.5007, -0.1246},
		{0.000123, -179.9999},
	} {
		lat, lng, err := ParseDMS(ToDMS(tc.lat, tc.lng))
		require.NoError(t, err)
		assert.InDelta(t, tc.lat, lat, 0.001)
		assert.InDelta(t, tc.lng, lng, 0.001)
	}

	assert.Equal(t, "NaN, 77.500000", ToDMS(math.NaN(), 77.5))
}

func TestDistanceKm_MatchesEllipsoid(t *testing.T) {
	// WGS84 geodesic lengths of one degree along the equator and a meridian.
	assert.InEpsilon(t, 111.319, DistanceKm(Point{0, 0}, Point{0, 1}), 0.006)
	assert.InEpsilon(t, 110.574, DistanceKm(Point{0, 0}, Point{1, 0}), 0.006)
	assert.Equal(t, 0.0, DistanceKm(Point{12.97, 77.59}, Point{12.97, 77.59}))
}

func TestParseDistanceKm(t *testing.T) {
	assert.Equal(t, 12.3, ParseDistanceKm("12.3 km"))
	assert.Equal(t, 1234.5, ParseDistanceKm("1,234.5 KM"))
	assert.Equal(t, 0.0, ParseDistanceKm("about twelve km"))
	assert.Equal(t, 0.0, ParseDistanceKm(""))
}

func TestBearingAndTurnAngle(t *testing.T) {
	origin := Point{Latitude: 0, Longitude: 0}

	assert.InDelta(t, 0, Bearing(origin, Point{Latitude: 1, Longitude: 0}), 1e-9)
	assert.InDelta(t, 90, Bearing(origin, Point{Latitude: 0, Longitude: 1}), 1e-9)
	assert.InDelta(t, 270, Bearing(origin, Point{Latitude: 0, Longitude: -1}), 1e-9)

	east := Point{Latitude: 0, Longitude: 0.01}
	north := Point{Latitude: 0.01, Longitude: 0.01}
	assert.InDelta(t, 90, TurnAngle(origin, east, north), 0.01)

	straight := Point{Latitude: 0, Longitude: 0.02}
	assert.InDelta(t, 0, TurnAngle(origin, east, straight), 0.01)

	back := Point{Latitude: 0, Longitude: 0}
	assert.InDelta(t, 180, TurnAngle(origin, east, back), 0.01)
}

func TestCenterAndBounds(t *testing.T) {
	route := Route{
		{Latitude: 10, Longitude: 70},
		{Latitude: 12, Longitude: 74},
		{Latitude: 14, Longitude: 72},
	}

	center, ok := Center(route)
	require.True(t, ok)
	assert.InDelta(t, 12, center.Latitude, 1e-9)
	assert.InDelta(t, 72, center.Longitude, 1e-9)

	_, ok = Center(Route{})
	assert.False(t, ok)

	bound := Bounds(route)
	assert.Equal(t, Point{Latitude: 10, Longitude: 70}, FromOrb(bound.Min))
	assert.Equal(t, Point{Latitude: 14, Longitude: 74}, FromOrb(bound.Max))
}

func TestDistanceFromStart(t *testing.T) {
	route := Route{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}}
	assert.InDelta(t, 111.19, DistanceFromStart(route[1], route), 0.01)
	assert.Equal(t, 0.0, DistanceFromStart(route[1], Route{}))
}

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"latitude,longitude",
		"12.9716,77.5946",
		"not,a point",
		"95.0,77.0",
		"13.0827, 80.2707",
		"14.0",
	}, "\n")

	route, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Route{
		{Latitude: 12.9716, Longitude: 77.5946},
		{Latitude: 13.0827, Longitude: 80.2707},
	}, route)
}
