package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Route is an ordered sequence of points. The first point is the supply
// location and the last point is the customer location.
type Route []Point

// Start returns the first point of the route.
func (r Route) Start() (Point, bool) {
	if len(r) == 0 {
		return Point{}, false
	}
	return r[0], true
}

// End returns the last point of the route.
func (r Route) End() (Point, bool) {
	if len(r) == 0 {
		return Point{}, false
	}
	return r[len(r)-1], true
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Calculate minimum distance from point to route in meters
	PointToRoute(point Point, route Route) (float64, error)

	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) (Route, error)

	// Encode a point sequence as a Google polyline string
	EncodePolyline(route Route) string
}

// NewGeoUtils is implemented in geo.go
