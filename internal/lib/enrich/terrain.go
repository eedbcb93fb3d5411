package enrich

import (
	"context"

	"github.com/dpup/routeintel/server/internal/lib/classify"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

const terrainMethod = "Google Roads API + Geocoding"

// TerrainSegment is the terrain classification of one sampled point.
type TerrainSegment struct {
	SegmentID         int       `json:"segment_id"`
	Coordinates       geo.Point `json:"coordinates"`
	TerrainType       string    `json:"terrain_type"`
	LocationTypes     []string  `json:"location_types"`
	FormattedAddress  string    `json:"formatted_address"`
	DistanceFromStart float64   `json:"distance_from_start"`
}

// TerrainAnalysis summarizes terrain along a route.
type TerrainAnalysis struct {
	Segments              []TerrainSegment `json:"terrain_segments"`
	Distribution          Distribution     `json:"terrain_distribution"`
	OverallClassification string           `json:"overall_classification"`
	ClassificationMethod  string           `json:"classification_method"`
	Recommendations       []string         `json:"recommendations"`
	Error                 string           `json:"error,omitempty"`
}

// ClassifyTerrain reverse-geocodes up to Terrain sample points and grades
// each by its place types.
func (e *Enricher) ClassifyTerrain(ctx context.Context, route geo.Route) TerrainAnalysis {
	defer timePass("terrain")()

	analysis := TerrainAnalysis{
		Segments:             []TerrainSegment{},
		Distribution:         NewDistribution(classify.TerrainUrban, classify.TerrainSemiUrban, classify.TerrainRural),
		ClassificationMethod: terrainMethod,
	}

	var lastErr error
	for i, p := range geo.Sample(route, min(e.targets.Terrain, len(route))) {
		res, err := e.reverseGeocode(ctx, p)
		if err != nil {
			lastErr = err
			skip(ctx, "terrain", i, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		terrain := classify.Terrain(res.Types)
		address := res.FormattedAddress
		if address == "" {
			address = "Unknown"
		}
		analysis.Segments = append(analysis.Segments, TerrainSegment{
			SegmentID:         i + 1,
			Coordinates:       p,
			TerrainType:       terrain,
			LocationTypes:     nonNil(res.Types),
			FormattedAddress:  address,
			DistanceFromStart: geo.DistanceFromStart(p, route),
		})
		analysis.Distribution.Add(terrain)
	}

	d := analysis.Distribution
	analysis.OverallClassification = classify.RouteTerrain(
		d[classify.TerrainUrban], d[classify.TerrainSemiUrban], d[classify.TerrainRural])

	var specific []string
	if d.Exceeds(classify.TerrainUrban, 50) {
		specific = append(specific,
			"Mostly urban route: expect frequent junctions and pedestrian crossings",
			"Allow for lower average speeds through towns")
	}
	if d.Exceeds(classify.TerrainRural, 50) {
		specific = append(specific,
			"Mostly rural route: services and fuel stops may be far apart",
			"Watch for livestock and slow farm vehicles")
	}
	analysis.Recommendations = Recommendations(specific,
		"Review the coordinate table for unfamiliar sections before departure")

	if len(analysis.Segments) == 0 && lastErr != nil {
		analysis.Error = providerNote(lastErr)
	}
	return analysis
}
