package mapviz

import (
	"fmt"
	"io"

	"github.com/twpayne/go-kml/v2"

	"github.com/dpup/routeintel/server/internal/lib/enrich"
	"github.com/dpup/routeintel/server/internal/lib/geo"
)

// Layers are the annotations exported alongside the route line.
type Layers struct {
	Turns        []enrich.SharpTurn
	RiskPoints   []enrich.ElevationRiskPoint
	Construction []enrich.ConstructionZone
}

// WriteKML writes a KML document with the route as a line string and one
// folder of placemarks per layer.
func WriteKML(w io.Writer, name string, route geo.Route, layers Layers) error {
	coords := make([]kml.Coordinate, len(route))
	for i, p := range route {
		coords[i] = coordinate(p)
	}

	turns := kml.Folder(kml.Name("Sharp turns"))
	for i, t := range layers.Turns {
		turns.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Turn %d", i+1)),
			kml.Description(fmt.Sprintf("%s, %.1f°", t.Classification, t.Angle)),
			kml.Point(kml.Coordinates(coordinate(t.Location))),
		))
	}

	gradients := kml.Folder(kml.Name("Steep gradients"))
	for i, r := range layers.RiskPoints {
		gradients.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Gradient %d", i+1)),
			kml.Description(fmt.Sprintf("%s %s, %.1f%%", r.RiskLevel, r.RiskType, r.GradientPercent)),
			kml.Point(kml.Coordinates(coordinate(r.Coordinates))),
		))
	}

	construction := kml.Folder(kml.Name("Construction zones"))
	for _, z := range layers.Construction {
		if z.Location.Coordinates == (geo.Point{}) {
			continue
		}
		construction.Add(kml.Placemark(
			kml.Name(z.Location.RoadName),
			kml.Description(fmt.Sprintf("%s (%s): %s", z.Status, z.Severity, z.Description)),
			kml.Point(kml.Coordinates(coordinate(z.Location.Coordinates))),
		))
	}

	doc := kml.KML(
		kml.Document(
			kml.Name(name),
			kml.Placemark(
				kml.Name("Route"),
				kml.LineString(
					kml.Tessellate(true),
					kml.Coordinates(coords...),
				),
			),
			turns,
			gradients,
			construction,
		),
	)

	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func coordinate(p geo.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
}
