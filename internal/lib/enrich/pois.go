package enrich

import (
	"context"

	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const placesPerSample = 3

// POICategory pairs a report category with the place type searched for it.
type POICategory struct {
	Name      string
	PlaceType string
}

// POICategories in report order.
var POICategories = []POICategory{
	{Name: "hospitals", PlaceType: "hospital"},
	{Name: "petrol_bunks", PlaceType: "gas_station"},
	{Name: "schools", PlaceType: "school"},
	{Name: "food_stops", PlaceType: "restaurant"},
}

// POI is a named place near the route.
type POI struct {
	Name     string     `json:"name"`
	Vicinity string     `json:"vicinity"`
	Location *geo.Point `json:"location,omitempty"`
}

// POIAnalysis maps a category name to its places in discovery order.
type POIAnalysis map[string][]POI

// Names returns the place names of a category.
func (p POIAnalysis) Names(category string) []string {
	names := make([]string, 0, len(p[category]))
	for _, poi := range p[category] {
		names = append(names, poi.Name)
	}
	return names
}

// DiscoverPOIs searches every category near a handful of sampled points and
// keeps the first few results of each search. Duplicate names keep their
// first position.
func (e *Enricher) DiscoverPOIs(ctx context.Context, route geo.Route) POIAnalysis {
	defer timePass("pois")()

	pois := make(POIAnalysis, len(POICategories))
	for _, c := range POICategories {
		pois[c.Name] = []POI{}
	}

	sampled := geo.Sample(route, e.targets.POI)
	sampled = sampled[:min(len(sampled), e.targets.POI)]

	for _, c := range POICategories {
		seen := make(map[string]bool)
		for i, p := range sampled {
			if ctx.Err() != nil {
				return pois
			}
			places, err := e.nearbyPlaces(ctx, p, c.PlaceType)
			if err != nil {
				skip(ctx, "pois", i, err)
				continue
			}
			for _, place := range places[:min(len(places), placesPerSample)] {
				name := place.Name
				if name == "" {
					name = "Unknown"
				}
				if seen[name] {
					continue
				}
				seen[name] = true
				vicinity := place.Vicinity
				if vicinity == "" {
					vicinity = "Unknown location"
				}
				pois[c.Name] = append(pois[c.Name], POI{Name: name, Vicinity: vicinity, Location: place.Location})
			}
		}
	}
	return pois
}
