package geo

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// Earth's radius in meters
const earthRadius = 6371000

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return haversine(p1, p2), nil
}

// PointToRoute calculates the minimum distance from a point to any segment of the route
func (g *geoUtils) PointToRoute(point Point, route Route) (float64, error) {
	if !isValidCoordinate(point) {
		return 0, errors.New("invalid point coordinates")
	}

	if len(route) == 0 {
		return 0, errors.New("route has no points")
	}

	if len(route) == 1 {
		return g.PointToPoint(point, route[0])
	}

	minDistance := math.Inf(1)
	for i := 0; i < len(route)-1; i++ {
		distance := pointToSegmentDistance(point, route[i], route[i+1])
		if distance < minDistance {
			minDistance = distance
		}
	}

	return minDistance, nil
}

// pointToSegmentDistance approximates the distance from point to a great circle segment.
// Adequate for the short segments produced by route sampling.
func pointToSegmentDistance(point, segmentStart, segmentEnd Point) float64 {
	if segmentStart == segmentEnd {
		return haversine(point, segmentStart)
	}

	distanceToStart := haversine(point, segmentStart)
	distanceToEnd := haversine(point, segmentEnd)
	segmentLength := haversine(segmentStart, segmentEnd)

	if segmentLength < 1 {
		return math.Min(distanceToStart, distanceToEnd)
	}

	d13 := distanceToStart / earthRadius
	bearingSegment := toRadians(Bearing(segmentStart, segmentEnd))
	bearingPoint := toRadians(Bearing(segmentStart, point))

	// Cross-track distance
	dxt := math.Asin(math.Sin(d13) * math.Sin(bearingPoint-bearingSegment))
	crossTrack := math.Abs(dxt) * earthRadius

	// Along-track distance decides whether the projection falls inside the segment
	alongTrack := math.Acos(math.Cos(d13)/math.Cos(dxt)) * earthRadius
	if math.IsNaN(alongTrack) || math.Cos(bearingPoint-bearingSegment) < 0 {
		return math.Min(distanceToStart, distanceToEnd)
	}
	if alongTrack > segmentLength {
		return distanceToEnd
	}

	return crossTrack
}

// DecodePolyline decodes Google polyline string to point sequence
func (g *geoUtils) DecodePolyline(encoded string) (Route, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	route := make(Route, len(coords))
	for i, coord := range coords {
		route[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !isValidCoordinate(route[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return route, nil
}

// EncodePolyline encodes the route with the Google polyline algorithm
func (g *geoUtils) EncodePolyline(route Route) string {
	coords := make([][]float64, len(route))
	for i, p := range route {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// DistanceKm returns the geodesic distance between two points in kilometers,
// computed with the haversine formula on a 6371 km sphere. It stays within
// 0.6% of the WGS84 ellipsoidal distance, well under one sample spacing.
func DistanceKm(a, b Point) float64 {
	return haversine(a, b) / 1000
}

// DistanceFromStart returns the distance in kilometers from the first route point to p.
// An empty route yields 0.
func DistanceFromStart(p Point, route Route) float64 {
	start, ok := route.Start()
	if !ok {
		return 0
	}
	return DistanceKm(start, p)
}

// Bearing returns the initial bearing from a to b in degrees, normalized to [0, 360)
func Bearing(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dlon := toRadians(b.Longitude - a.Longitude)

	y := math.Sin(dlon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dlon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// TurnAngle returns the change of heading at p2 when travelling p1 -> p2 -> p3, in [0, 180]
func TurnAngle(p1, p2, p3 Point) float64 {
	angle := math.Abs(Bearing(p2, p3) - Bearing(p1, p2))
	if angle > 180 {
		angle = 360 - angle
	}
	return angle
}

// Center returns the arithmetic mean of all route points
func Center(route Route) (Point, bool) {
	if len(route) == 0 {
		return Point{}, false
	}

	var lat, lng float64
	for _, p := range route {
		lat += p.Latitude
		lng += p.Longitude
	}
	n := float64(len(route))
	return Point{Latitude: lat / n, Longitude: lng / n}, true
}

// Bounds returns the bounding box of the route
func Bounds(route Route) orb.Bound {
	mp := make(orb.MultiPoint, len(route))
	for i, p := range route {
		mp[i] = p.Orb()
	}
	return mp.Bound()
}

// Orb converts the point to an orb point (lng, lat order)
func (p Point) Orb() orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

// FromOrb converts an orb point back to a Point
func FromOrb(p orb.Point) Point {
	return Point{Latitude: p.Lat(), Longitude: p.Lon()}
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

func haversine(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}

	lat1 := toRadians(p1.Latitude)
	lat2 := toRadians(p2.Latitude)
	dlat := lat2 - lat1
	dlon := toRadians(p2.Longitude - p1.Longitude)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
