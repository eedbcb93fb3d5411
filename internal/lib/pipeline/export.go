package pipeline

import (
	"io"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/mapviz"
)

// Title names the route by its endpoints.
func (b *Bundle) Title() string {
	supply, customer := b.Endpoints.Supply.PlaceName, b.Endpoints.Customer.CustomerName
	if supply == "" || customer == "" {
		return "Route " + b.ID
	}
	return supply + " to " + customer
}

// Layers returns the point annotations drawn alongside the route.
func (b *Bundle) Layers() mapviz.Layers {
	return mapviz.Layers{
		Turns:        b.Turns.Turns,
		RiskPoints:   b.Elevation.RiskPoints,
		Construction: append(append([]enrich.ConstructionZone(nil), b.Construction.ActiveZones...), b.Construction.PlannedZones...),
	}
}

// WriteKML writes the route and its layers as KML.
func (b *Bundle) WriteKML(w io.Writer) error {
	return mapviz.WriteKML(w, b.Title(), b.Route, b.Layers())
}
