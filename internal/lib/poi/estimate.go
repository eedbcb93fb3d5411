// Package poi places points of interest whose coordinates are unknown at a
// stable position along a route.
package poi

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Estimate derives a point for name from the route. The same name and route
// always give the same point: a hash of the name selects a route point and a
// small offset of up to 0.00999 degrees is added to both coordinates. An
// empty route gives the zero point.
func Estimate(name string, route geo.Route) geo.Point {
	if len(route) == 0 {
		return geo.Point{}
	}

	sum := sha256.Sum256([]byte(name))
	h := binary.BigEndian.Uint64(sum[:8])

	base := route[h%uint64(len(route))]
	offset := float64(h%1000) / 100000
	return geo.Point{
		Latitude:  base.Latitude + offset,
		Longitude: base.Longitude + offset,
	}
}

// Locate returns the known location when present, otherwise the estimate.
func Locate(name string, known *geo.Point, route geo.Route) geo.Point {
	if known != nil {
		return *known
	}
	return Estimate(name, route)
}
