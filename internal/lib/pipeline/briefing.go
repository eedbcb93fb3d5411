package pipeline

import (
	"fmt"

	"github.com/dpup/routeintel/server/internal/lib/briefing"
)

// BriefingInput condenses the bundle into the facts a narrator needs.
func (b *Bundle) BriefingInput(in Input) briefing.Input {
	supply := in.SupplyName
	if supply == "" {
		supply = b.Endpoints.Supply.FormattedAddress
	}
	customer := in.CustomerName
	if customer == "" {
		customer = b.Endpoints.Customer.FormattedAddress
	}

	distance := in.DistanceText
	if distance == "" {
		distance = b.Highways.RouteDistance
	}

	var highlights []string
	add := func(n int, format string) {
		if n > 0 {
			highlights = append(highlights, fmt.Sprintf(format, n))
		}
	}
	add(len(b.Turns.Turns), "%d sharp turns")
	add(b.Turns.BlindSpots, "%d blind spots")
	add(len(b.Elevation.RiskPoints), "%d steep gradient points")
	add(len(b.Construction.ActiveZones), "%d active construction zones")
	add(len(b.Monsoon.FloodProneAreas), "%d flood prone areas")
	add(len(b.Monsoon.LandslideZones), "%d landslide zones")
	add(len(b.Winter.FogZones), "%d fog zones")
	add(len(b.Summer.TemperatureHotspots), "%d heat hotspots")
	add(len(b.Congestion.Hotspots), "%d congestion hotspots")

	var recs []string
	for _, group := range [][]string{
		b.Terrain.Recommendations,
		b.Elevation.Recommendations,
		b.Congestion.Recommendations,
		b.SeasonalTraffic.Recommendations,
		b.Construction.Recommendations,
		b.SeasonalConditions.Recommendations,
		b.Summer.Recommendations,
		b.Monsoon.Recommendations,
		b.Winter.Recommendations,
	} {
		recs = append(recs, group...)
	}

	return briefing.Input{
		RouteName:          fmt.Sprintf("%s to %s", supply, customer),
		DistanceText:       distance,
		SafetyScore:        b.Turns.SafetyScore,
		Terrain:            b.Terrain.OverallClassification,
		ConstructionImpact: b.Construction.Impact.OverallImpact,
		Highlights:         highlights,
		Recommendations:    recs,
	}
}
